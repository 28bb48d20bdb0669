package indicators

// Levels — ближайшие кандидаты поддержки/резистанса. nil — уровня нет.
type Levels struct {
	Support    *float64
	Resistance *float64
}

// SupportResistance ищет локальный минимум и максимум в хвостовом окне.
// Минимум ниже текущей цены — поддержка, максимум выше — резистанс.
func SupportResistance(prices []float64, window int) Levels {
	n := len(prices)
	if n == 0 || window <= 0 {
		return Levels{}
	}
	if window > n {
		window = n
	}

	tail := prices[n-window:]
	low, high := tail[0], tail[0]
	for _, p := range tail[1:] {
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}

	current := prices[n-1]
	var lv Levels
	if low < current {
		s := low
		lv.Support = &s
	}
	if high > current {
		r := high
		lv.Resistance = &r
	}
	return lv
}

// TrendSlope — наклон линейной регрессии цены закрытия в хвостовом окне.
// Знак определяет направление тренда; 0 при нехватке данных.
func TrendSlope(prices []float64, window int) float64 {
	n := len(prices)
	if window < 2 || n < 2 {
		return 0
	}
	if window > n {
		window = n
	}
	tail := prices[n-window:]

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range tail {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	m := float64(window)
	denom := m*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (m*sumXY - sumX*sumY) / denom
}
