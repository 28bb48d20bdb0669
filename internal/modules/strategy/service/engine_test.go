package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pionex_bot/internal/models"
	"pionex_bot/internal/modules/config"
	"pionex_bot/pkg/logger"
)

// fakeMarket отдаёт заранее подготовленные свечи по таймфрейму.
type fakeMarket struct {
	candles map[string][]models.Candle
	price   float64
	err     error
}

func (f *fakeMarket) Candles(_ context.Context, _, interval string, _ int) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[interval], nil
}

func (f *fakeMarket) CurrentPrice(_ context.Context, _ string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func fallingCandles(n int) []models.Candle {
	out := make([]models.Candle, n)
	base := time.Unix(1700000000, 0)
	for i := 0; i < n; i++ {
		price := 200 - float64(i)
		out[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   price + 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 100,
		}
	}
	return out
}

func risingCandles(n int) []models.Candle {
	out := make([]models.Candle, n)
	base := time.Unix(1700000000, 0)
	for i := 0; i < n; i++ {
		price := 100 + float64(i)
		out[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 100,
		}
	}
	return out
}

// driftCandles — почти плоский ряд с постоянным шагом цены закрытия;
// при маленьком шаге полосы Боллинджера сжимаются.
func driftCandles(n int, step float64) []models.Candle {
	out := make([]models.Candle, n)
	base := time.Unix(1700000000, 0)
	price := 100.0
	for i := 0; i < n; i++ {
		open := price
		price += step
		high, low := price, open
		if low > high {
			high, low = low, high
		}
		out[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   high + 0.001,
			Low:    low - 0.001,
			Close:  price,
			Volume: 100,
		}
	}
	return out
}

func testEngine(market MarketData) *Engine {
	cfg := config.Defaults()
	return NewEngine(cfg, market, logger.NewNop())
}

func TestRSIStrategyBuySignal(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": fallingCandles(30)},
		price:   170.0,
	}
	e := testEngine(market)

	sig := e.RSIStrategy(context.Background(), "BTC_USDT", 1000)

	require.Equal(t, models.ActionBuy, sig.Action)
	assert.Equal(t, "BTC_USDT", sig.Symbol)
	// quantity = balance × position_size / price
	assert.InDelta(t, 1000*0.1/170.0, sig.Quantity, 1e-9)
	// stop_loss = price × (1 − sl_pct/100), take_profit зеркально вверх
	assert.InDelta(t, 170.0*(1-1.5/100), sig.StopLoss, 1e-9)
	assert.InDelta(t, 170.0*(1+2.5/100), sig.TakeProfit, 1e-9)
	assert.Less(t, sig.Indicators.RSI, 30.0)
}

func TestRSIStrategySellSignal(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": risingCandles(30)},
		price:   130.0,
	}
	e := testEngine(market)

	sig := e.RSIStrategy(context.Background(), "BTC_USDT", 1000)

	require.Equal(t, models.ActionSell, sig.Action)
	assert.InDelta(t, 130.0*(1+1.5/100), sig.StopLoss, 1e-9)
	assert.InDelta(t, 130.0*(1-2.5/100), sig.TakeProfit, 1e-9)
	assert.Greater(t, sig.Indicators.RSI, 70.0)
}

func TestRSIStrategyZeroPriceGuard(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": fallingCandles(30)},
		price:   0,
	}
	e := testEngine(market)

	sig := e.RSIStrategy(context.Background(), "BTC_USDT", 1000)

	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Equal(t, "Unable to get current price", sig.Reason)
}

func TestRSIStrategyNoData(t *testing.T) {
	market := &fakeMarket{candles: map[string][]models.Candle{}, price: 100}
	e := testEngine(market)

	sig := e.RSIStrategy(context.Background(), "BTC_USDT", 1000)
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Equal(t, "No market data available", sig.Reason)
}

func TestMultiTimeframeRequiresBoth(t *testing.T) {
	// короткий ТФ перепродан, длинный перекуплен — сигнала нет
	market := &fakeMarket{
		candles: map[string][]models.Candle{
			"5m": fallingCandles(30),
			"1h": risingCandles(30),
		},
		price: 150,
	}
	e := testEngine(market)

	sig := e.MultiTimeframeStrategy(context.Background(), "BTC_USDT", 1000)
	assert.Equal(t, models.ActionHold, sig.Action)
}

func TestMultiTimeframeBuy(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{
			"5m": fallingCandles(30),
			"1h": fallingCandles(30),
		},
		price: 170,
	}
	e := testEngine(market)

	sig := e.MultiTimeframeStrategy(context.Background(), "BTC_USDT", 1000)
	require.Equal(t, models.ActionBuy, sig.Action)
	assert.Less(t, sig.Indicators.RSIShortTF, 30.0)
}

func TestVolumeFilterBlocksWithoutSurge(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": fallingCandles(30)},
		price:   170,
	}
	e := testEngine(market)

	// объём ровный, всплеска нет — RSI-сигнал гасится
	sig := e.VolumeFilterStrategy(context.Background(), "BTC_USDT", 1000)
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Contains(t, sig.Reason, "Volume ratio")
}

func TestVolumeFilterPassesWithSurge(t *testing.T) {
	candles := fallingCandles(30)
	candles[len(candles)-1].Volume = 1000 // всплеск на последнем баре
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": candles},
		price:   170,
	}
	e := testEngine(market)

	sig := e.VolumeFilterStrategy(context.Background(), "BTC_USDT", 1000)
	require.Equal(t, models.ActionBuy, sig.Action)
	assert.Greater(t, sig.Indicators.VolumeRatio, 1.5)
}

func TestAdvancedStrategyHoldsByDefault(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": risingCandles(60)},
		price:   160,
	}
	e := testEngine(market)

	sig := e.AdvancedStrategy(context.Background(), "BTC_USDT", 1000)
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Contains(t, sig.Reason, "Conditions not aligned")
}

func TestAdvancedStrategyBuyAlignment(t *testing.T) {
	// тихий восходящий дрейф: сжатие Боллинджера, растущий OBV, цена у
	// поддержки; MACD и формация нейтральны и не блокируют сторону
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": driftCandles(60, 0.002)},
		price:   100.12,
	}
	cfg := config.Defaults()
	// пороги распахнуты: проверяем саму конъюнкцию, а не экстремумы RSI
	cfg.RSI.Oversold = 101
	cfg.VolumeFilter.Multiplier = 0.5
	e := NewEngine(cfg, market, logger.NewNop())

	sig := e.AdvancedStrategy(context.Background(), "BTC_USDT", 1000)

	require.Equal(t, models.ActionBuy, sig.Action, sig.Reason)
	assert.Equal(t, "All bullish conditions met", sig.Reason)
	assert.InDelta(t, 1000*0.1/100.12, sig.Quantity, 1e-9)
	assert.Less(t, sig.Indicators.BBBandwidth, bbSqueezeBandwidth)
	assert.Greater(t, sig.Indicators.TrendSlope, 0.0)
}

func TestAdvancedStrategySellAlignment(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": driftCandles(60, -0.002)},
		price:   99.88,
	}
	cfg := config.Defaults()
	cfg.RSI.Overbought = -1
	cfg.VolumeFilter.Multiplier = 0.5
	e := NewEngine(cfg, market, logger.NewNop())

	sig := e.AdvancedStrategy(context.Background(), "BTC_USDT", 1000)

	require.Equal(t, models.ActionSell, sig.Action, sig.Reason)
	assert.Equal(t, "All bearish conditions met", sig.Reason)
	assert.InDelta(t, 99.88*(1+1.5/100), sig.StopLoss, 1e-9)
	assert.Less(t, sig.Indicators.TrendSlope, 0.0)
}

func TestAdvancedStrategySqueezeThreshold(t *testing.T) {
	// шаг покрупнее: bandwidth ~0.03, цена внутри полос — сжатия нет,
	// и именно условие Боллинджера остаётся единственным несработавшим
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": driftCandles(60, -0.13)},
		price:   94.7,
	}
	cfg := config.Defaults()
	cfg.RSI.Overbought = -1
	cfg.VolumeFilter.Multiplier = 0.5
	e := NewEngine(cfg, market, logger.NewNop())

	sig := e.AdvancedStrategy(context.Background(), "BTC_USDT", 1000)

	require.Equal(t, models.ActionHold, sig.Action)
	assert.Greater(t, sig.Indicators.BBBandwidth, bbSqueezeBandwidth)
	assert.Contains(t, sig.Reason, "sell missing [bollinger breakout or squeeze]")
}

func TestGridSignalAtLevel(t *testing.T) {
	market := &fakeMarket{price: 100}
	e := testEngine(market)

	sig := e.GridSignal(context.Background(), "BTC_USDT", 1000)
	// цена и есть нулевой уровень сетки: держим
	assert.Equal(t, models.ActionHold, sig.Action)
}

func TestDCAAlwaysBuys(t *testing.T) {
	market := &fakeMarket{price: 200}
	e := testEngine(market)

	sig := e.DCAStrategy(context.Background(), "BTC_USDT", 1000)
	require.Equal(t, models.ActionBuy, sig.Action)
	assert.InDelta(t, 50.0/200.0, sig.Quantity, 1e-9)
}

func TestEvaluateUnknownStrategy(t *testing.T) {
	e := testEngine(&fakeMarket{price: 100})

	sig := e.Evaluate(context.Background(), "martingale", "BTC_USDT", 1000)
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Contains(t, sig.Reason, "Unknown strategy")
}

func TestEvaluateDispatch(t *testing.T) {
	market := &fakeMarket{
		candles: map[string][]models.Candle{"1h": fallingCandles(30)},
		price:   170,
	}
	e := testEngine(market)

	sig := e.Evaluate(context.Background(), StrategyRSI, "BTC_USDT", 1000)
	assert.Equal(t, models.ActionBuy, sig.Action)
}

func TestTrailingStopLongMonotonic(t *testing.T) {
	// цена выросла — стоп подтягивается
	updated, stop := ShouldUpdateTrailingStop(110, 100, 1.0, true)
	require.True(t, updated)
	assert.InDelta(t, 110*(1-0.01), stop, 1e-9)

	// цена слегка откатилась — стоп не опускается
	updated, stop2 := ShouldUpdateTrailingStop(108, stop, 1.0, true)
	assert.False(t, updated)
	assert.Equal(t, stop, stop2)

	// новый максимум — стоп снова растёт
	updated, stop3 := ShouldUpdateTrailingStop(120, stop2, 1.0, true)
	require.True(t, updated)
	assert.Greater(t, stop3, stop2)
}

func TestTrailingStopShortMonotonic(t *testing.T) {
	updated, stop := ShouldUpdateTrailingStop(90, 0, 1.0, false)
	require.True(t, updated)
	assert.InDelta(t, 90*1.01, stop, 1e-9)

	// цена отскочила вверх — стоп шорта не двигается против позиции
	updated, stop2 := ShouldUpdateTrailingStop(95, stop, 1.0, false)
	assert.False(t, updated)
	assert.Equal(t, stop, stop2)
}
