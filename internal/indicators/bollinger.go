package indicators

import "math"

// Bollinger возвращает верхнюю, среднюю и нижнюю полосы. При нехватке данных
// все три ряда схлопываются в последнюю цену.
func Bollinger(prices []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	n := len(prices)
	upper = make([]float64, n)
	middle = make([]float64, n)
	lower = make([]float64, n)
	if n == 0 {
		return upper, middle, lower
	}
	if period <= 0 || n < period {
		last := prices[n-1]
		for i := 0; i < n; i++ {
			upper[i], middle[i], lower[i] = last, last, last
		}
		return upper, middle, lower
	}

	for i := 0; i < period-1; i++ {
		upper[i], middle[i], lower[i] = prices[i], prices[i], prices[i]
	}
	for i := period - 1; i < n; i++ {
		window := prices[i-period+1 : i+1]

		var sum float64
		for _, p := range window {
			sum += p
		}
		mean := sum / float64(period)

		var variance float64
		for _, p := range window {
			variance += (p - mean) * (p - mean)
		}
		sd := math.Sqrt(variance / float64(period))

		middle[i] = mean
		upper[i] = mean + sd*stdDev
		lower[i] = mean - sd*stdDev
	}
	return upper, middle, lower
}
