package service

import (
	"context"
	"fmt"

	"pionex_bot/internal/indicators"
	"pionex_bot/internal/models"
)

// VolumeFilterStrategy пропускает RSI-сигнал только при всплеске объёма:
// текущий объём > multiplier × EMA(объёма).
func (e *Engine) VolumeFilterStrategy(ctx context.Context, symbol string, balance float64) models.Signal {
	candles, err := e.market.Candles(ctx, symbol, e.cfg.DefaultInterval, e.cfg.KlineLimit)
	if err != nil {
		return models.Hold(fmt.Sprintf("Market data error: %v", err))
	}
	if len(candles) == 0 {
		return models.Hold(reasonNoData)
	}

	volumes := models.Volumes(candles)
	volumeEMA := indicators.LastEMA(volumes, e.cfg.VolumeFilter.EMAPeriod)
	current := volumes[len(volumes)-1]

	ratio := 0.0
	if volumeEMA > 0 {
		ratio = current / volumeEMA
	}
	if ratio <= e.cfg.VolumeFilter.Multiplier {
		s := models.Hold(fmt.Sprintf("Volume ratio %.2f below threshold %.2f", ratio, e.cfg.VolumeFilter.Multiplier))
		s.Symbol = symbol
		s.Indicators = models.IndicatorSnapshot{VolumeRatio: ratio}
		return s
	}

	signal := e.RSIStrategy(ctx, symbol, balance)
	signal.Indicators.VolumeRatio = ratio
	if signal.Action != models.ActionHold {
		signal.Reason = fmt.Sprintf("%s, volume ratio %.2f confirms", signal.Reason, ratio)
	}
	return signal
}
