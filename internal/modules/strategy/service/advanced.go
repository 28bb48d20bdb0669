package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"pionex_bot/internal/indicators"
	"pionex_bot/internal/models"
)

// близость к уровню поддержки/резистанса: в пределах 1% от цены
const levelProximity = 0.01

// сжатие Боллинджера: bandwidth ниже порога предвещает выход из диапазона
const bbSqueezeBandwidth = 0.02

type macdCrossover string

const (
	crossBullish macdCrossover = "bullish"
	crossBearish macdCrossover = "bearish"
	crossNone    macdCrossover = "none"
)

// пересечение macd/signal между предыдущим и текущим баром
func detectCrossover(macd, sig []float64) macdCrossover {
	n := len(macd)
	if n < 2 || len(sig) < 2 {
		return crossNone
	}
	prevAbove := macd[n-2] > sig[n-2]
	curAbove := macd[n-1] > sig[n-1]
	switch {
	case !prevAbove && curAbove:
		return crossBullish
	case prevAbove && !curAbove:
		return crossBearish
	default:
		return crossNone
	}
}

// AdvancedStrategy — конъюнкция всех индикаторов: RSI-экстремум, MACD без
// встречного пересечения, объёмный фильтр, свечная формация без встречного
// сигнала, пробой/сжатие Боллинджера, знак тренда OBV, близость к уровню и
// наклон тренда. BUY/SELL только при полном согласии, иначе HOLD со списком
// несработавших условий.
func (e *Engine) AdvancedStrategy(ctx context.Context, symbol string, balance float64) models.Signal {
	candles, err := e.market.Candles(ctx, symbol, e.cfg.DefaultInterval, e.cfg.KlineLimit)
	if err != nil {
		return models.Hold(fmt.Sprintf("Market data error: %v", err))
	}
	if len(candles) == 0 {
		return models.Hold(reasonNoData)
	}

	closes := models.Closes(candles)
	volumes := models.Volumes(candles)

	price, hold, ok := e.currentPrice(ctx, symbol)
	if !ok {
		return hold
	}

	rsi := indicators.LastRSI(closes, e.cfg.RSI.Period)
	macd, sig, _ := indicators.MACD(closes, e.cfg.MACD.Fast, e.cfg.MACD.Slow, e.cfg.MACD.Signal)
	crossover := detectCrossover(macd, sig)

	volumeEMA := indicators.LastEMA(volumes, e.cfg.VolumeFilter.EMAPeriod)
	volumeRatio := 0.0
	if volumeEMA > 0 {
		volumeRatio = volumes[len(volumes)-1] / volumeEMA
	}
	volumeOK := volumeRatio > e.cfg.VolumeFilter.Multiplier

	pattern := indicators.ClassifyCandles(candles)

	upper, middle, lower := indicators.Bollinger(closes, e.cfg.Bollinger.Window, e.cfg.Bollinger.StdDev)
	last := len(closes) - 1
	bandwidth := 0.0
	if middle[last] != 0 {
		bandwidth = (upper[last] - lower[last]) / middle[last]
	}
	// пробой любой полосы либо сжатие: сигнал волатильности, направление
	// задают остальные условия
	squeeze := bandwidth < bbSqueezeBandwidth
	bbSignal := closes[last] >= upper[last] || closes[last] <= lower[last] || squeeze

	obvSeries := indicators.OBVSeries(closes, volumes)
	obvSlope := indicators.TrendSlope(obvSeries, e.cfg.SupportResistance.Window)

	levels := indicators.SupportResistance(closes, e.cfg.SupportResistance.Window)
	nearSupport := levels.Support != nil && math.Abs(price-*levels.Support)/price < levelProximity
	nearResistance := levels.Resistance != nil && math.Abs(*levels.Resistance-price)/price < levelProximity

	slope := indicators.TrendSlope(closes, e.cfg.SupportResistance.Window)

	snap := models.IndicatorSnapshot{
		RSI:           rsi,
		MACDCrossover: string(crossover),
		VolumeRatio:   volumeRatio,
		Pattern:       pattern.Name,
		BBBandwidth:   bandwidth,
		OBV:           obvSeries[len(obvSeries)-1],
		Support:       levels.Support,
		Resistance:    levels.Resistance,
		TrendSlope:    slope,
	}

	// MACD и формация не обязаны подтверждать сторону, достаточно не
	// противоречить ей
	buyChecks := []check{
		{"rsi oversold", rsi < e.cfg.RSI.Oversold},
		{"macd not bearish", crossover != crossBearish},
		{"volume surge", volumeOK},
		{"pattern not bearish", pattern.Signal != indicators.PatternBearish},
		{"bollinger breakout or squeeze", bbSignal},
		{"obv rising", obvSlope > 0},
		{"near support", nearSupport},
		{"uptrend", slope > 0},
	}
	sellChecks := []check{
		{"rsi overbought", rsi > e.cfg.RSI.Overbought},
		{"macd not bullish", crossover != crossBullish},
		{"volume surge", volumeOK},
		{"pattern not bullish", pattern.Signal != indicators.PatternBullish},
		{"bollinger breakout or squeeze", bbSignal},
		{"obv falling", obvSlope < 0},
		{"near resistance", nearResistance},
		{"downtrend", slope < 0},
	}

	if failed := failedChecks(buyChecks); len(failed) == 0 {
		sl, tp := e.longStops(price)
		return models.Signal{
			Action:     models.ActionBuy,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     "All bullish conditions met",
		}
	}
	if failed := failedChecks(sellChecks); len(failed) == 0 {
		sl, tp := e.shortStops(price)
		return models.Signal{
			Action:     models.ActionSell,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     "All bearish conditions met",
		}
	}

	s := models.Hold(fmt.Sprintf("Conditions not aligned: buy missing [%s], sell missing [%s]",
		strings.Join(failedChecks(buyChecks), ", "), strings.Join(failedChecks(sellChecks), ", ")))
	s.Symbol = symbol
	s.Price = price
	s.Indicators = snap
	return s
}

type check struct {
	name string
	ok   bool
}

func failedChecks(checks []check) []string {
	var failed []string
	for _, c := range checks {
		if !c.ok {
			failed = append(failed, c.name)
		}
	}
	return failed
}
