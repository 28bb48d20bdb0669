package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pionex_bot/internal/models"
	"pionex_bot/internal/modules/config"
)

// MarketData — что стратегиям нужно от рынка.
type MarketData interface {
	Candles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Engine оценивает стратегии. Состояния между вызовами нет: каждый вызов
// считает всё заново по свежему срезу рынка.
type Engine struct {
	cfg    *config.Config
	market MarketData
	log    *zap.Logger
}

func NewEngine(cfg *config.Config, market MarketData, log *zap.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		market: market,
		log:    log.With(zap.String("component", "strategy")),
	}
}

const (
	reasonNoData  = "No market data available"
	reasonNoPrice = "Unable to get current price"
)

// currentPrice достаёт цену; ноль — это осознанный HOLD-гард, не ошибка.
func (e *Engine) currentPrice(ctx context.Context, symbol string) (float64, models.Signal, bool) {
	price, err := e.market.CurrentPrice(ctx, symbol)
	if err != nil {
		e.log.Warn("ticker price failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, models.Hold(fmt.Sprintf("Ticker error: %v", err)), false
	}
	if price == 0 {
		return 0, models.Hold(reasonNoPrice), false
	}
	return price, models.Signal{}, true
}

// quantity = balance × position_size / price, единая для всех стратегий.
func (e *Engine) quantity(balance, positionSize, price float64) float64 {
	return balance * positionSize / price
}

// стоп и тейк для лонга; для шорта проценты зеркалятся
func (e *Engine) longStops(price float64) (sl, tp float64) {
	return price * (1 - e.cfg.StopLossPct/100), price * (1 + e.cfg.TakeProfitPct/100)
}

func (e *Engine) shortStops(price float64) (sl, tp float64) {
	return price * (1 + e.cfg.StopLossPct/100), price * (1 - e.cfg.TakeProfitPct/100)
}
