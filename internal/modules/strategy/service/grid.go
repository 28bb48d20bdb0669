package service

import (
	"context"
	"fmt"
	"math"

	"pionex_bot/internal/models"
)

// GridSignal строит симметричную сетку уровней вокруг текущей цены и
// сравнивает цену с ближайшим уровнем: ниже уровня — BUY, выше — SELL.
func (e *Engine) GridSignal(ctx context.Context, symbol string, balance float64) models.Signal {
	price, hold, ok := e.currentPrice(ctx, symbol)
	if !ok {
		return hold
	}

	levels := e.cfg.Grid.Levels
	if levels < 2 {
		return models.Hold(fmt.Sprintf("Grid levels misconfigured: %d", levels))
	}

	// уровни: price × (1 + (i − levels/2) × spacing)
	nearest := 0.0
	nearestDist := math.Inf(1)
	half := levels / 2
	for i := 0; i < levels; i++ {
		level := price * (1 + float64(i-half)*e.cfg.Grid.Spacing)
		if d := math.Abs(price - level); d < nearestDist {
			nearestDist = d
			nearest = level
		}
	}

	qty := e.quantity(balance, e.cfg.Grid.PositionSize, price)
	switch {
	case price < nearest:
		return models.Signal{
			Action:   models.ActionBuy,
			Symbol:   symbol,
			Quantity: qty,
			Price:    nearest,
			Reason:   fmt.Sprintf("Price %.4f below grid level %.4f", price, nearest),
		}
	case price > nearest:
		return models.Signal{
			Action:   models.ActionSell,
			Symbol:   symbol,
			Quantity: qty,
			Price:    nearest,
			Reason:   fmt.Sprintf("Price %.4f above grid level %.4f", price, nearest),
		}
	default:
		s := models.Hold(fmt.Sprintf("Price %.4f at grid level", price))
		s.Symbol = symbol
		s.Price = price
		return s
	}
}
