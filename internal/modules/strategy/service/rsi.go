package service

import (
	"context"
	"fmt"

	"pionex_bot/internal/indicators"
	"pionex_bot/internal/models"
)

// RSIStrategy — базовая стратегия: BUY ниже oversold, SELL выше overbought.
func (e *Engine) RSIStrategy(ctx context.Context, symbol string, balance float64) models.Signal {
	candles, err := e.market.Candles(ctx, symbol, e.cfg.DefaultInterval, e.cfg.KlineLimit)
	if err != nil {
		return models.Hold(fmt.Sprintf("Market data error: %v", err))
	}
	if len(candles) == 0 {
		return models.Hold(reasonNoData)
	}

	rsi := indicators.LastRSI(models.Closes(candles), e.cfg.RSI.Period)

	price, hold, ok := e.currentPrice(ctx, symbol)
	if !ok {
		return hold
	}

	snap := models.IndicatorSnapshot{RSI: rsi}

	switch {
	case rsi < e.cfg.RSI.Oversold:
		sl, tp := e.longStops(price)
		return models.Signal{
			Action:     models.ActionBuy,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     fmt.Sprintf("RSI %.2f below oversold %.2f", rsi, e.cfg.RSI.Oversold),
		}
	case rsi > e.cfg.RSI.Overbought:
		sl, tp := e.shortStops(price)
		return models.Signal{
			Action:     models.ActionSell,
			Symbol:     symbol,
			Quantity:   e.quantity(balance, e.cfg.PositionSize, price),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
			Indicators: snap,
			Reason:     fmt.Sprintf("RSI %.2f above overbought %.2f", rsi, e.cfg.RSI.Overbought),
		}
	default:
		s := models.Hold(fmt.Sprintf("RSI %.2f in neutral zone", rsi))
		s.Symbol = symbol
		s.Price = price
		s.Indicators = snap
		return s
	}
}
