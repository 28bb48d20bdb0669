package service

import (
	"context"

	"github.com/pkg/errors"
)

// Limits — динамические лимиты, выведенные из баланса аккаунта.
type Limits struct {
	Balance       float64 `json:"balance"`
	MaxPositions  int     `json:"max_positions"`   // balance / 100
	MaxInvestment float64 `json:"max_investment"`  // 80% баланса
	MaxGrids      int     `json:"max_grids"`       // balance / 50
}

// DynamicLimits пересчитывает лимиты от текущего USDT-баланса.
func (t *Trader) DynamicLimits(ctx context.Context) (Limits, error) {
	balance, err := t.api.USDTBalance(ctx)
	if err != nil {
		return Limits{}, errors.Wrap(err, "get balance")
	}

	return Limits{
		Balance:       balance,
		MaxPositions:  int(balance / 100),
		MaxInvestment: balance * 0.8,
		MaxGrids:      int(balance / 50),
	}, nil
}
