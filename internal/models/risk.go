package models

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// PositionRisk — снимок риска по одной позиции. Пересчитывается на каждом
// вызове проверки, нигде не хранится дольше.
type PositionRisk struct {
	Symbol                string     `json:"symbol"`
	PositionAmt           float64    `json:"position_amt"`
	EntryPrice            float64    `json:"entry_price"`
	MarkPrice             float64    `json:"mark_price"`
	LiquidationPrice      float64    `json:"liquidation_price"`
	DistanceToLiquidation float64    `json:"distance_to_liquidation"` // signed, percent
	RiskLevel             RiskLevel  `json:"risk_level"`
	UnrealizedPnl         float64    `json:"unrealized_pnl"`
	Leverage              int        `json:"leverage"`
	MarginType            MarginType `json:"margin_type"`
}

// LiquidationWarning — последняя зафиксированная оценка риска по символу.
type LiquidationWarning struct {
	Positions []PositionRisk `json:"positions"`
	TotalRisk float64        `json:"total_risk"`
	Timestamp time.Time      `json:"timestamp"`
}
