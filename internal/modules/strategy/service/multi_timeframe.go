package service

import (
	"context"
	"fmt"

	"pionex_bot/internal/indicators"
	"pionex_bot/internal/models"
)

const (
	shortTF = "5m"
	longTF  = "1h"
)

// MultiTimeframeStrategy сверяет RSI на коротком и длинном таймфреймах.
// BUY: короткий в перепроданности И длинный ещё не перекуплен.
// SELL: оба в перекупленности.
func (e *Engine) MultiTimeframeStrategy(ctx context.Context, symbol string, balance float64) models.Signal {
	short, err := e.market.Candles(ctx, symbol, shortTF, e.cfg.KlineLimit)
	if err != nil {
		return models.Hold(fmt.Sprintf("Market data error (%s): %v", shortTF, err))
	}
	long, err := e.market.Candles(ctx, symbol, longTF, e.cfg.KlineLimit)
	if err != nil {
		return models.Hold(fmt.Sprintf("Market data error (%s): %v", longTF, err))
	}
	if len(short) == 0 || len(long) == 0 {
		return models.Hold(reasonNoData)
	}

	rsiShort := indicators.LastRSI(models.Closes(short), e.cfg.RSI.Period)
	rsiLong := indicators.LastRSI(models.Closes(long), e.cfg.RSI.Period)

	price, hold, ok := e.currentPrice(ctx, symbol)
	if !ok {
		return hold
	}

	snap := models.IndicatorSnapshot{RSIShortTF: rsiShort, RSILongTF: rsiLong}

	switch {
	case rsiShort < e.cfg.RSI.Oversold && rsiLong < e.cfg.RSI.Overbought:
		sl, tp := e.longStops(price)
		return models.Signal{
			Action:     models.ActionBuy,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     fmt.Sprintf("RSI %s %.2f oversold, RSI %s %.2f not overbought", shortTF, rsiShort, longTF, rsiLong),
		}
	case rsiShort > e.cfg.RSI.Overbought && rsiLong > e.cfg.RSI.Overbought:
		sl, tp := e.shortStops(price)
		return models.Signal{
			Action:     models.ActionSell,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     fmt.Sprintf("RSI overbought on both timeframes (%.2f / %.2f)", rsiShort, rsiLong),
		}
	default:
		s := models.Hold(fmt.Sprintf("Timeframes disagree: RSI %s %.2f, %s %.2f", shortTF, rsiShort, longTF, rsiLong))
		s.Symbol = symbol
		s.Price = price
		s.Indicators = snap
		return s
	}
}
