package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pionex_bot/internal/models"
)

func TestRSIShortInputFallback(t *testing.T) {
	prices := []float64{100, 101, 102}
	rsi := RSI(prices, 14)

	require.Len(t, rsi, len(prices))
	for _, v := range rsi {
		assert.Equal(t, NeutralRSI, v)
	}
}

func TestRSIBounds(t *testing.T) {
	prices := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.8, 46.2, 46.6, 46.5, 46.2, 46.4, 46.2, 45.6}
	rsi := RSI(prices, 14)

	for i, v := range rsi {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 100.0, "index %d", i)
	}
}

func TestRSIExtremes(t *testing.T) {
	rising := make([]float64, 20)
	falling := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 100 - float64(i)
	}

	assert.Equal(t, 100.0, LastRSI(rising, 14))
	assert.Equal(t, 0.0, LastRSI(falling, 14))
}

func TestEMAIdentityFallback(t *testing.T) {
	prices := []float64{1, 2, 3}
	out := EMA(prices, 10)

	assert.Equal(t, prices, out)

	// фолбэк — копия, не алиас входа
	out[0] = 99
	assert.Equal(t, 1.0, prices[0])
}

func TestEMAConverges(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 10
	}
	assert.InDelta(t, 10.0, LastEMA(prices, 12), 1e-9)
}

func TestMACDShortInputZeros(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	macd, sig, hist := MACD(prices, 12, 26, 9)

	require.Len(t, macd, len(prices))
	require.Len(t, sig, len(prices))
	require.Len(t, hist, len(prices))
	for i := range prices {
		assert.Zero(t, macd[i])
		assert.Zero(t, sig[i])
		assert.Zero(t, hist[i])
	}
}

func TestMACDHistogramConsistency(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i%7)
	}
	macd, sig, hist := MACD(prices, 12, 26, 9)

	for i := range prices {
		assert.InDelta(t, macd[i]-sig[i], hist[i], 1e-9)
	}
}

func TestBollingerShortInputCollapse(t *testing.T) {
	prices := []float64{10, 11, 12}
	upper, middle, lower := Bollinger(prices, 20, 2)

	require.Len(t, upper, 3)
	last := prices[len(prices)-1]
	for i := range prices {
		assert.Equal(t, last, upper[i])
		assert.Equal(t, last, middle[i])
		assert.Equal(t, last, lower[i])
	}
}

func TestBollingerOrdering(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
	}
	upper, middle, lower := Bollinger(prices, 20, 2)

	last := len(prices) - 1
	assert.GreaterOrEqual(t, upper[last], middle[last])
	assert.GreaterOrEqual(t, middle[last], lower[last])
}

func TestOBVSignedAccumulation(t *testing.T) {
	closes := []float64{10, 11, 10.5, 10.5, 12}
	volumes := []float64{100, 200, 150, 50, 300}

	// 100 + 200 - 150 + 0 + 300
	assert.Equal(t, 450.0, OBV(closes, volumes))
}

func TestSupportResistance(t *testing.T) {
	prices := []float64{100, 95, 105, 98, 102}
	lv := SupportResistance(prices, 5)

	require.NotNil(t, lv.Support)
	require.NotNil(t, lv.Resistance)
	assert.Equal(t, 95.0, *lv.Support)
	assert.Equal(t, 105.0, *lv.Resistance)
}

func TestTrendSlopeSign(t *testing.T) {
	up := []float64{1, 2, 3, 4, 5}
	down := []float64{5, 4, 3, 2, 1}
	flat := []float64{3, 3, 3, 3, 3}

	assert.Positive(t, TrendSlope(up, 5))
	assert.Negative(t, TrendSlope(down, 5))
	assert.Zero(t, TrendSlope(flat, 5))
}

func candle(o, h, l, c float64) models.Candle {
	return models.Candle{Time: time.Now(), Open: o, High: h, Low: l, Close: c}
}

func TestClassifyCandlesTooFewBars(t *testing.T) {
	p := ClassifyCandles([]models.Candle{candle(1, 2, 0.5, 1.5)})
	assert.Equal(t, "none", p.Name)
	assert.Equal(t, PatternNeutral, p.Signal)
}

func TestClassifyCandlesBullishEngulfing(t *testing.T) {
	bars := []models.Candle{
		candle(105, 106, 99, 100), // медвежья
		candle(99, 108, 98, 107),  // бычья, поглощает
	}
	p := ClassifyCandles(bars)
	assert.Equal(t, "bullish_engulfing", p.Name)
	assert.Equal(t, PatternBullish, p.Signal)
}

func TestClassifyCandlesBearishEngulfing(t *testing.T) {
	bars := []models.Candle{
		candle(100, 106, 99, 105),
		candle(106, 107, 97, 98),
	}
	p := ClassifyCandles(bars)
	assert.Equal(t, "bearish_engulfing", p.Name)
	assert.Equal(t, PatternBearish, p.Signal)
}

func TestClassifyCandlesHammer(t *testing.T) {
	bars := []models.Candle{
		candle(100, 101, 99, 100),
		candle(100, 101.2, 90, 101), // тело маленькое, нижняя тень длинная
	}
	p := ClassifyCandles(bars)
	assert.Equal(t, "hammer", p.Name)
	assert.Equal(t, PatternBullish, p.Signal)
}

func TestClassifyCandlesShootingStar(t *testing.T) {
	bars := []models.Candle{
		candle(100, 101, 99, 100),
		candle(101, 111, 99.8, 100), // тело маленькое, верхняя тень длинная
	}
	p := ClassifyCandles(bars)
	assert.Equal(t, "shooting_star", p.Name)
	assert.Equal(t, PatternBearish, p.Signal)
}
