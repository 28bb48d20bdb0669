package service

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"pionex_bot/internal/models"
)

// StrategySummary — срез активных стратегий трейдера для внешнего слоя.
type StrategySummary struct {
	Grids  []*models.GridStrategy  `json:"grids"`
	Hedges []*models.HedgeStrategy `json:"hedges"`
}

func (t *Trader) Status() StrategySummary {
	s := StrategySummary{
		Grids:  make([]*models.GridStrategy, 0, len(t.activeGrids)),
		Hedges: make([]*models.HedgeStrategy, 0, len(t.activeHedges)),
	}
	for _, g := range t.activeGrids {
		s.Grids = append(s.Grids, g)
	}
	for _, h := range t.activeHedges {
		s.Hedges = append(s.Hedges, h)
	}
	return s
}

// GridPerformance — метрики по исполненным ордерам активной сетки.
type GridPerformance struct {
	Symbol         string  `json:"symbol"`
	TotalOrders    int     `json:"total_orders"`
	ExecutedOrders int     `json:"executed_orders"`
	ExecutedVolume float64 `json:"executed_volume"` // в котируемой валюте
	FillRate       float64 `json:"fill_rate"`
}

func (t *Trader) GridPerformance(symbol string) (GridPerformance, bool) {
	grid, ok := t.activeGrids[strategyKey(symbol, string(models.KindFuturesGrid))]
	if !ok {
		return GridPerformance{}, false
	}

	perf := GridPerformance{
		Symbol:         symbol,
		TotalOrders:    len(grid.Orders) + len(grid.ExecutedOrders),
		ExecutedOrders: len(grid.ExecutedOrders),
	}
	for _, o := range grid.ExecutedOrders {
		perf.ExecutedVolume += o.Price * o.Quantity
	}
	if perf.TotalOrders > 0 {
		perf.FillRate = float64(perf.ExecutedOrders) / float64(perf.TotalOrders)
	}
	return perf, true
}

// UnrealizedPnl — суммарный нереализованный PnL по открытым позициям.
func (t *Trader) UnrealizedPnl(ctx context.Context) (float64, error) {
	positions, err := t.api.GetPositions(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "get positions")
	}

	var total float64
	for _, p := range positions {
		if pnl, err := strconv.ParseFloat(p.UnrealizedPnl, 64); err == nil {
			total += pnl
		}
	}
	return total, nil
}
