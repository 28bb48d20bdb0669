package service

import (
	"context"
	"fmt"

	"pionex_bot/internal/models"
)

// DCAStrategy — безусловная покупка на фиксированную сумму.
func (e *Engine) DCAStrategy(ctx context.Context, symbol string, _ float64) models.Signal {
	price, hold, ok := e.currentPrice(ctx, symbol)
	if !ok {
		return hold
	}

	return models.Signal{
		Action:   models.ActionBuy,
		Symbol:   symbol,
		Quantity: e.cfg.DCA.Amount / price,
		Price:    price,
		Reason:   fmt.Sprintf("DCA buy of %.2f USDT", e.cfg.DCA.Amount),
	}
}
