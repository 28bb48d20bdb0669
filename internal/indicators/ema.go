package indicators

// EMA считает экспоненциальную скользящую среднюю и возвращает ряд той же
// длины, что и вход. Если точек меньше периода — вход возвращается как есть.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	out := make([]float64, len(values))

	// seed: простая средняя первых period точек
	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
		out[i] = values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*k + ema
		out[i] = ema
	}
	return out
}

// LastEMA — значение EMA на последней точке ряда.
func LastEMA(values []float64, period int) float64 {
	series := EMA(values, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
