package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pionex_bot/internal/models"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
)

// GridParams — вход для создания фьючерсной сетки.
type GridParams struct {
	Symbol     string
	LowerPrice float64
	UpperPrice float64
	GridNumber int
	Investment float64
	Leverage   int
	MarginType models.MarginType
}

func strategyKey(symbol, gridType string) string {
	return symbol + "_" + gridType
}

// GridLevels — равномерные уровни между нижней и верхней границей.
// Для lower=100, upper=200, n=5 получаем [100,125,150,175,200].
func GridLevels(lower, upper float64, n int) []float64 {
	levels := make([]float64, n)
	step := (upper - lower) / float64(n-1)
	for i := 0; i < n; i++ {
		levels[i] = lower + float64(i)*step
	}
	return levels
}

func (t *Trader) validateGrid(p GridParams) error {
	if p.GridNumber < 2 || p.GridNumber > t.cfg.Grid.MaxGrids {
		return errors.Errorf("grid number %d out of range [2, %d]", p.GridNumber, t.cfg.Grid.MaxGrids)
	}
	if p.Investment < t.cfg.Grid.MinInvestment || p.Investment > t.cfg.Grid.MaxInvestment {
		return errors.Errorf("investment %.2f out of range [%.2f, %.2f]",
			p.Investment, t.cfg.Grid.MinInvestment, t.cfg.Grid.MaxInvestment)
	}
	if p.LowerPrice <= 0 || p.UpperPrice <= p.LowerPrice {
		return errors.Errorf("invalid price band [%.4f, %.4f]", p.LowerPrice, p.UpperPrice)
	}
	return nil
}

// CreateGrid выставляет по лимитному ордеру на каждый уровень и сохраняет
// стратегию под ключом symbol_gridtype.
func (t *Trader) CreateGrid(ctx context.Context, p GridParams) (*models.GridStrategy, error) {
	if err := t.validateGrid(p); err != nil {
		return nil, err
	}

	key := strategyKey(p.Symbol, string(models.KindFuturesGrid))
	if _, exists := t.activeGrids[key]; exists {
		return nil, errors.Errorf("grid already active for %s", p.Symbol)
	}

	price, err := t.api.GetTickerPrice(ctx, p.Symbol)
	if err != nil {
		return nil, errors.Wrap(err, "get current price")
	}

	if p.Leverage > 0 {
		if err := t.api.SetLeverage(ctx, p.Symbol, p.Leverage); err != nil {
			return nil, errors.Wrap(err, "set leverage")
		}
	}
	if p.MarginType != "" {
		if err := t.api.SetMarginType(ctx, p.Symbol, string(p.MarginType)); err != nil {
			return nil, errors.Wrap(err, "set margin type")
		}
	}

	levels := GridLevels(p.LowerPrice, p.UpperPrice, p.GridNumber)
	perLevel := p.Investment / float64(p.GridNumber)

	orders := make([]models.GridOrder, 0, len(levels))
	for i, level := range levels {
		side := models.ActionBuy
		if level >= price {
			side = models.ActionSell
		}
		qty := perLevel / level

		res, err := t.api.PlaceOrder(ctx, pionexsvc.OrderRequest{
			Symbol:   p.Symbol,
			Side:     string(side),
			Type:     "LIMIT",
			Quantity: qty,
			Price:    level,
		})
		if err != nil {
			// откатываем уже выставленные
			t.cancelOrders(ctx, p.Symbol, orders)
			return nil, errors.Wrapf(err, "place grid order at level %d", i)
		}
		orders = append(orders, models.GridOrder{
			OrderID:   res.OrderID,
			Price:     level,
			Quantity:  qty,
			Side:      side,
			GridLevel: i,
		})
	}

	grid := &models.GridStrategy{
		Symbol:     p.Symbol,
		GridType:   string(models.KindFuturesGrid),
		UpperPrice: p.UpperPrice,
		LowerPrice: p.LowerPrice,
		GridNumber: p.GridNumber,
		Investment: p.Investment,
		Leverage:   p.Leverage,
		MarginType: p.MarginType,
		Orders:     orders,
		CreatedAt:  time.Now(),
		Status:     models.StrategyActive,
	}
	t.activeGrids[key] = grid

	id, err := t.store.AddActiveStrategy(ctx, t.userID, p.Symbol, models.KindFuturesGrid, grid)
	if err != nil {
		// стратегия уже живёт на бирже, потеря записи не отменяет её
		t.log.Error("persist grid strategy failed", zap.String("symbol", p.Symbol), zap.Error(err))
	} else {
		t.recordIDs[key] = id
	}

	t.log.Info("grid created",
		zap.String("symbol", p.Symbol),
		zap.Int("levels", p.GridNumber),
		zap.Float64("investment", p.Investment))
	return grid, nil
}

// ManageGrid — поллинг: сверяем цену с ордерами и отмечаем те, что должны
// были исполниться. Новых ордеров не выставляем.
func (t *Trader) ManageGrid(ctx context.Context, symbol string) ([]models.GridOrder, error) {
	key := strategyKey(symbol, string(models.KindFuturesGrid))
	grid, ok := t.activeGrids[key]
	if !ok {
		return nil, errors.Errorf("no active grid for %s", symbol)
	}

	price, err := t.api.GetTickerPrice(ctx, symbol)
	if err != nil {
		return nil, errors.Wrap(err, "get current price")
	}

	var executed []models.GridOrder
	remaining := grid.Orders[:0]
	for _, o := range grid.Orders {
		triggered := (o.Side == models.ActionBuy && price <= o.Price) ||
			(o.Side == models.ActionSell && price >= o.Price)
		if triggered {
			executed = append(executed, o)
		} else {
			remaining = append(remaining, o)
		}
	}

	if len(executed) > 0 {
		grid.Orders = remaining
		grid.ExecutedOrders = append(grid.ExecutedOrders, executed...)
		grid.LastExecution = time.Now()
		t.log.Info("grid orders executed",
			zap.String("symbol", symbol),
			zap.Int("count", len(executed)),
			zap.Float64("price", price))
	}
	return executed, nil
}

// CloseGrid отменяет известные ордера и убирает стратегию из активных.
// Частично неудавшиеся отмены терпимы: локально закрытие всегда успешно.
func (t *Trader) CloseGrid(ctx context.Context, symbol string) (cancelled int, err error) {
	key := strategyKey(symbol, string(models.KindFuturesGrid))
	grid, ok := t.activeGrids[key]
	if !ok {
		return 0, errors.Errorf("no active grid for %s", symbol)
	}

	cancelled = t.cancelOrders(ctx, symbol, grid.Orders)

	grid.Status = models.StrategyClosed
	grid.ClosedAt = time.Now()
	delete(t.activeGrids, key)
	t.deactivateRecord(ctx, key)

	t.log.Info("grid closed",
		zap.String("symbol", symbol),
		zap.Int("cancelled", cancelled),
		zap.Int("total", len(grid.Orders)))
	return cancelled, nil
}

func (t *Trader) cancelOrders(ctx context.Context, symbol string, orders []models.GridOrder) int {
	cancelled := 0
	for _, o := range orders {
		if err := t.api.CancelOrder(ctx, symbol, o.OrderID); err != nil {
			t.log.Warn("cancel order failed",
				zap.String("symbol", symbol),
				zap.String("order_id", o.OrderID),
				zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled
}

func (t *Trader) deactivateRecord(ctx context.Context, key string) {
	id, ok := t.recordIDs[key]
	if !ok {
		return
	}
	delete(t.recordIDs, key)
	if err := t.store.DeactivateStrategy(ctx, id); err != nil {
		t.log.Error("deactivate strategy record failed", zap.Int64("id", id), zap.Error(err))
	}
}
