package service

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pionex_bot/internal/models"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
)

// пороги дистанции до ликвидации, проценты
const (
	riskCriticalPct = 5.0
	riskHighPct     = 10.0
	riskMediumPct   = 20.0
)

// кросс-маржа: грубая оценка, реальная модель маржи биржи недоступна
const crossLiquidationFactor = 0.8

// LiquidationPrice — оценка цены ликвидации.
// Isolated: entry × (1 − 1/leverage) для лонга, зеркально для шорта.
// Cross: приближение entry × 0.8 (для шорта entry × 1.2).
func LiquidationPrice(entry float64, leverage int, margin models.MarginType, long bool) float64 {
	if margin == models.MarginCross {
		if long {
			return entry * crossLiquidationFactor
		}
		return entry * (2 - crossLiquidationFactor)
	}
	if leverage <= 0 {
		leverage = 1
	}
	if long {
		return entry * (1 - 1/float64(leverage))
	}
	return entry * (1 + 1/float64(leverage))
}

// LiquidationDistance — знаковая дистанция от марк-цены до ликвидации в
// процентах. Положительная, пока позиция жива; для шорта считается зеркально.
func LiquidationDistance(mark, liquidation float64, long bool) float64 {
	if mark == 0 {
		return 0
	}
	if long {
		return (mark - liquidation) / mark * 100
	}
	return (liquidation - mark) / mark * 100
}

// ClassifyRisk — уровень риска по дистанции: <5 CRITICAL, <10 HIGH,
// <20 MEDIUM, иначе LOW.
func ClassifyRisk(distancePct float64) models.RiskLevel {
	switch {
	case distancePct < riskCriticalPct:
		return models.RiskCritical
	case distancePct < riskHighPct:
		return models.RiskHigh
	case distancePct < riskMediumPct:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// CheckLiquidationRisk пересчитывает риск по всем открытым позициям.
// CRITICAL уходит в notifier; снимок нигде не сохраняется.
func (t *Trader) CheckLiquidationRisk(ctx context.Context) (*models.LiquidationWarning, error) {
	positions, err := t.api.GetPositions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get positions")
	}

	warning := &models.LiquidationWarning{Timestamp: time.Now()}
	for _, p := range positions {
		risk, ok := t.positionRisk(ctx, p)
		if !ok {
			continue
		}
		warning.Positions = append(warning.Positions, risk)
		warning.TotalRisk += riskWeight(risk.RiskLevel)

		if risk.RiskLevel == models.RiskCritical {
			t.log.Warn("position near liquidation",
				zap.String("symbol", risk.Symbol),
				zap.Float64("distance_pct", risk.DistanceToLiquidation))
			_ = t.notifier.NotifyF(ctx,
				"⚠️ CRITICAL: %s ликвидация в %.2f%% (mark %.4f, liq %.4f)",
				risk.Symbol, risk.DistanceToLiquidation, risk.MarkPrice, risk.LiquidationPrice)
		}
	}
	t.lastRiskCheck = warning
	return warning, nil
}

// LastRiskCheck — результат последней проверки риска, nil если её не было.
func (t *Trader) LastRiskCheck() *models.LiquidationWarning {
	return t.lastRiskCheck
}

func (t *Trader) positionRisk(ctx context.Context, p pionexsvc.Position) (models.PositionRisk, bool) {
	amt, err := strconv.ParseFloat(p.PositionAmt, 64)
	if err != nil || amt == 0 {
		return models.PositionRisk{}, false
	}
	entry, err := strconv.ParseFloat(p.EntryPrice, 64)
	if err != nil || entry == 0 {
		return models.PositionRisk{}, false
	}
	pnl, _ := strconv.ParseFloat(p.UnrealizedPnl, 64)

	mark, err := t.api.GetMarkPrice(ctx, p.Symbol)
	if err != nil {
		t.log.Warn("mark price unavailable", zap.String("symbol", p.Symbol), zap.Error(err))
		mark = entry
	}

	margin := models.MarginIsolated
	if p.MarginType == string(models.MarginCross) {
		margin = models.MarginCross
	}
	long := amt > 0

	liq := LiquidationPrice(entry, p.Leverage, margin, long)
	distance := LiquidationDistance(mark, liq, long)

	return models.PositionRisk{
		Symbol:                p.Symbol,
		PositionAmt:           amt,
		EntryPrice:            entry,
		MarkPrice:             mark,
		LiquidationPrice:      liq,
		DistanceToLiquidation: distance,
		RiskLevel:             ClassifyRisk(distance),
		UnrealizedPnl:         pnl,
		Leverage:              p.Leverage,
		MarginType:            margin,
	}, true
}

func riskWeight(level models.RiskLevel) float64 {
	switch level {
	case models.RiskCritical:
		return 4
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	default:
		return 1
	}
}
