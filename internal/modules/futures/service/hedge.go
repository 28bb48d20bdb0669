package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pionex_bot/internal/models"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
)

// HedgeParams — вход для хедж-сетки: две ноги по одним уровням.
type HedgeParams struct {
	Symbol     string
	LowerPrice float64
	UpperPrice float64
	GridNumber int
	Investment float64
	HedgeRatio float64 // доля инвестиции в long-ногу
}

// CreateHedge делит инвестицию по hedge_ratio на long и short лестницы.
// Требует включённого хеджирования в конфиге.
func (t *Trader) CreateHedge(ctx context.Context, p HedgeParams) (*models.HedgeStrategy, error) {
	if !t.cfg.Hedging.Enabled {
		return nil, errors.New("hedging is disabled in configuration")
	}
	if p.HedgeRatio <= 0 || p.HedgeRatio >= 1 {
		return nil, errors.Errorf("hedge ratio %.2f out of range (0, 1)", p.HedgeRatio)
	}
	if err := t.validateGrid(GridParams{
		Symbol:     p.Symbol,
		LowerPrice: p.LowerPrice,
		UpperPrice: p.UpperPrice,
		GridNumber: p.GridNumber,
		Investment: p.Investment,
	}); err != nil {
		return nil, err
	}
	if len(t.activeHedges) >= t.cfg.Hedging.MaxPositions {
		return nil, errors.Errorf("hedge positions limit %d reached", t.cfg.Hedging.MaxPositions)
	}

	key := strategyKey(p.Symbol, string(models.KindHedgingGrid))
	if _, exists := t.activeHedges[key]; exists {
		return nil, errors.Errorf("hedge already active for %s", p.Symbol)
	}

	levels := GridLevels(p.LowerPrice, p.UpperPrice, p.GridNumber)
	longInvestment := p.Investment * p.HedgeRatio
	shortInvestment := p.Investment - longInvestment

	longOrders, err := t.placeLadder(ctx, p.Symbol, levels, longInvestment, models.ActionBuy)
	if err != nil {
		return nil, errors.Wrap(err, "place long ladder")
	}
	shortOrders, err := t.placeLadder(ctx, p.Symbol, levels, shortInvestment, models.ActionSell)
	if err != nil {
		t.cancelOrders(ctx, p.Symbol, longOrders)
		return nil, errors.Wrap(err, "place short ladder")
	}

	hedge := &models.HedgeStrategy{
		Symbol:      p.Symbol,
		UpperPrice:  p.UpperPrice,
		LowerPrice:  p.LowerPrice,
		GridNumber:  p.GridNumber,
		Investment:  p.Investment,
		HedgeRatio:  p.HedgeRatio,
		LongOrders:  longOrders,
		ShortOrders: shortOrders,
		CreatedAt:   time.Now(),
		Status:      models.StrategyActive,
	}
	t.activeHedges[key] = hedge

	id, err := t.store.AddActiveStrategy(ctx, t.userID, p.Symbol, models.KindHedgingGrid, hedge)
	if err != nil {
		t.log.Error("persist hedge strategy failed", zap.String("symbol", p.Symbol), zap.Error(err))
	} else {
		t.recordIDs[key] = id
	}

	t.log.Info("hedge created",
		zap.String("symbol", p.Symbol),
		zap.Float64("ratio", p.HedgeRatio),
		zap.Float64("investment", p.Investment))
	return hedge, nil
}

// placeLadder — лестница лимитных ордеров одной стороны по уровням.
func (t *Trader) placeLadder(ctx context.Context, symbol string, levels []float64, investment float64, side models.Action) ([]models.GridOrder, error) {
	perLevel := investment / float64(len(levels))

	orders := make([]models.GridOrder, 0, len(levels))
	for i, level := range levels {
		qty := perLevel / level
		res, err := t.api.PlaceOrder(ctx, pionexsvc.OrderRequest{
			Symbol:   symbol,
			Side:     string(side),
			Type:     "LIMIT",
			Quantity: qty,
			Price:    level,
		})
		if err != nil {
			t.cancelOrders(ctx, symbol, orders)
			return nil, errors.Wrapf(err, "ladder order at level %d", i)
		}
		orders = append(orders, models.GridOrder{
			OrderID:   res.OrderID,
			Price:     level,
			Quantity:  qty,
			Side:      side,
			GridLevel: i,
		})
	}
	return orders, nil
}

// CloseHedge отменяет обе ноги; частичные неудачи не мешают закрытию.
func (t *Trader) CloseHedge(ctx context.Context, symbol string) (cancelled int, err error) {
	key := strategyKey(symbol, string(models.KindHedgingGrid))
	hedge, ok := t.activeHedges[key]
	if !ok {
		return 0, errors.Errorf("no active hedge for %s", symbol)
	}

	cancelled = t.cancelOrders(ctx, symbol, hedge.LongOrders)
	cancelled += t.cancelOrders(ctx, symbol, hedge.ShortOrders)

	hedge.Status = models.StrategyClosed
	hedge.ClosedAt = time.Now()
	delete(t.activeHedges, key)
	t.deactivateRecord(ctx, key)

	t.log.Info("hedge closed", zap.String("symbol", symbol), zap.Int("cancelled", cancelled))
	return cancelled, nil
}
