package indicators

// OBV — on-balance volume: накопленная сумма объёмов со знаком направления
// изменения цены закрытия.
func OBV(closes, volumes []float64) float64 {
	n := len(closes)
	if n < 2 || len(volumes) < n {
		return 0
	}

	obv := volumes[0]
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv += volumes[i]
		case closes[i] < closes[i-1]:
			obv -= volumes[i]
		}
	}
	return obv
}

// OBVSeries — значение OBV в каждой точке ряда, для оценки тренда объёма.
func OBVSeries(closes, volumes []float64) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n == 0 || len(volumes) < n {
		return out
	}

	obv := volumes[0]
	out[0] = obv
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv += volumes[i]
		case closes[i] < closes[i-1]:
			obv -= volumes[i]
		}
		out[i] = obv
	}
	return out
}
