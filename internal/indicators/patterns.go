package indicators

import "pionex_bot/internal/models"

type PatternSignal string

const (
	PatternBullish PatternSignal = "bullish"
	PatternBearish PatternSignal = "bearish"
	PatternNeutral PatternSignal = "neutral"
)

// Pattern — распознанная свечная формация последних двух баров.
type Pattern struct {
	Name   string
	Signal PatternSignal
}

// отношение тела к диапазону, ниже которого свеча считается пин-баром;
// доминирующая тень при этом должна быть минимум ~3.3x противоположной
const pinBodyRatio = 0.3

// ClassifyCandles распознаёт поглощение и пин-бары по двум последним барам.
// Меньше двух баров — {none, neutral}.
func ClassifyCandles(candles []models.Candle) Pattern {
	if len(candles) < 2 {
		return Pattern{Name: "none", Signal: PatternNeutral}
	}

	cur := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	bullishEngulfing := cur.Open < prev.Close &&
		cur.Close > prev.Open &&
		cur.Close-cur.Open > prev.Open-prev.Close

	bearishEngulfing := cur.Open > prev.Close &&
		cur.Close < prev.Open &&
		cur.Open-cur.Close > prev.Close-prev.Open

	var hammer, shootingStar bool
	if totalRange := cur.High - cur.Low; totalRange > 0 {
		body := cur.Close - cur.Open
		if body < 0 {
			body = -body
		}
		bodyRatio := body / totalRange

		// hammer: маленькое бычье тело, длинная нижняя тень
		hammer = bodyRatio < pinBodyRatio &&
			cur.Close > cur.Open &&
			(cur.High-cur.Close) < (cur.Open-cur.Low)*pinBodyRatio

		// shooting star: маленькое медвежье тело, длинная верхняя тень
		shootingStar = bodyRatio < pinBodyRatio &&
			cur.Close < cur.Open &&
			(cur.Open-cur.Low) < (cur.High-cur.Close)*pinBodyRatio
	}

	switch {
	case bullishEngulfing:
		return Pattern{Name: "bullish_engulfing", Signal: PatternBullish}
	case hammer:
		return Pattern{Name: "hammer", Signal: PatternBullish}
	case bearishEngulfing:
		return Pattern{Name: "bearish_engulfing", Signal: PatternBearish}
	case shootingStar:
		return Pattern{Name: "shooting_star", Signal: PatternBearish}
	default:
		return Pattern{Name: "none", Signal: PatternNeutral}
	}
}
