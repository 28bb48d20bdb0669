package service

import (
	"context"
	"fmt"

	"pionex_bot/internal/models"
)

// Имена стратегий, принимаемые Evaluate.
const (
	StrategyRSI            = "rsi"
	StrategyMultiTimeframe = "rsi_multi_tf"
	StrategyVolumeFilter   = "volume_filter"
	StrategyAdvanced       = "advanced"
	StrategyGrid           = "grid"
	StrategyDCA            = "dca"
)

// Evaluate выбирает стратегию по имени. Неизвестное имя — HOLD, не ошибка.
func (e *Engine) Evaluate(ctx context.Context, name, symbol string, balance float64) models.Signal {
	switch name {
	case StrategyRSI:
		return e.RSIStrategy(ctx, symbol, balance)
	case StrategyMultiTimeframe:
		return e.MultiTimeframeStrategy(ctx, symbol, balance)
	case StrategyVolumeFilter:
		return e.VolumeFilterStrategy(ctx, symbol, balance)
	case StrategyAdvanced:
		return e.AdvancedStrategy(ctx, symbol, balance)
	case StrategyGrid:
		return e.GridSignal(ctx, symbol, balance)
	case StrategyDCA:
		return e.DCAStrategy(ctx, symbol, balance)
	default:
		return models.Hold(fmt.Sprintf("Unknown strategy: %s", name))
	}
}
