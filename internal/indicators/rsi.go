package indicators

// NeutralRSI возвращается, когда данных меньше period+1.
const NeutralRSI = 50.0

// RSI считает классический Wilder RSI по ценам закрытия и возвращает ряд
// той же длины, что и вход. Точки до прогрева заполняются нейтральным 50.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) < period+1 {
		for i := range out {
			out[i] = NeutralRSI
		}
		return out
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := 0; i < period; i++ {
		out[i] = NeutralRSI
	}
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

// LastRSI — значение RSI на последней точке ряда.
func LastRSI(prices []float64, period int) float64 {
	series := RSI(prices, period)
	if len(series) == 0 {
		return NeutralRSI
	}
	return series[len(series)-1]
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return NeutralRSI
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
