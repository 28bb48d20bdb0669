package indicators

// MACD возвращает три параллельных ряда: линию MACD, сигнальную линию и
// гистограмму. При нехватке данных (len < slow) все три ряда нулевые.
func MACD(prices []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(prices)
	macd = make([]float64, n)
	sig = make([]float64, n)
	hist = make([]float64, n)
	if fast <= 0 || slow <= 0 || signal <= 0 || n < slow {
		return macd, sig, hist
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	// линия MACD определена начиная с точки прогрева медленной EMA
	valid := make([]float64, 0, n-slow+1)
	for i := slow - 1; i < n; i++ {
		v := fastEMA[i] - slowEMA[i]
		macd[i] = v
		valid = append(valid, v)
	}

	sigValid := EMA(valid, signal)
	for i, v := range sigValid {
		sig[slow-1+i] = v
	}

	for i := slow - 1; i < n; i++ {
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist
}
