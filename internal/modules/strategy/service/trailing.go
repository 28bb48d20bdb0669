package service

// TrailingStop — кандидат трейлинг-стопа от текущей цены.
// Для лонга стоп ниже цены, для шорта выше.
func TrailingStop(price, trailingPct float64, long bool) float64 {
	if long {
		return price * (1 - trailingPct/100)
	}
	return price * (1 + trailingPct/100)
}

// ShouldUpdateTrailingStop решает, надо ли подтянуть стоп. Инвариант
// монотонности: стоп лонга только растёт, стоп шорта только падает.
func ShouldUpdateTrailingStop(currentPrice, currentStop, trailingPct float64, long bool) (bool, float64) {
	candidate := TrailingStop(currentPrice, trailingPct, long)
	if long {
		if candidate > currentStop {
			return true, candidate
		}
	} else {
		if currentStop == 0 || candidate < currentStop {
			return true, candidate
		}
	}
	return false, currentStop
}
