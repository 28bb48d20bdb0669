package models

import "time"

type StrategyStatus string

const (
	StrategyActive StrategyStatus = "ACTIVE"
	StrategyClosed StrategyStatus = "CLOSED"
)

type StrategyKind string

const (
	KindFuturesGrid StrategyKind = "FUTURES_GRID"
	KindHedgingGrid StrategyKind = "HEDGING_GRID"
)

type MarginType string

const (
	MarginIsolated MarginType = "ISOLATED"
	MarginCross    MarginType = "CROSS"
)

// GridOrder — один выставленный лимитный ордер на уровне сетки.
type GridOrder struct {
	OrderID   string  `json:"order_id"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Side      Action  `json:"side"` // BUY/SELL
	GridLevel int     `json:"grid_level"`
}

// GridStrategy — активная сетка. Мутируется только владельцем (Trader).
type GridStrategy struct {
	Symbol     string         `json:"symbol"`
	GridType   string         `json:"grid_type"`
	UpperPrice float64        `json:"upper_price"`
	LowerPrice float64        `json:"lower_price"`
	GridNumber int            `json:"grid_number"`
	Investment float64        `json:"investment"`
	Leverage   int            `json:"leverage"`
	MarginType MarginType     `json:"margin_type"`
	Orders     []GridOrder    `json:"orders"`
	CreatedAt  time.Time      `json:"created_at"`
	ClosedAt   time.Time      `json:"closed_at,omitempty"`
	Status     StrategyStatus `json:"status"`

	LastExecution  time.Time   `json:"last_execution,omitempty"`
	ExecutedOrders []GridOrder `json:"executed_orders,omitempty"`
}

// HedgeStrategy — сетка с двумя ногами: long и short.
type HedgeStrategy struct {
	Symbol      string         `json:"symbol"`
	UpperPrice  float64        `json:"upper_price"`
	LowerPrice  float64        `json:"lower_price"`
	GridNumber  int            `json:"grid_number"`
	Investment  float64        `json:"investment"`
	HedgeRatio  float64        `json:"hedge_ratio"`
	LongOrders  []GridOrder    `json:"long_orders"`
	ShortOrders []GridOrder    `json:"short_orders"`
	CreatedAt   time.Time      `json:"created_at"`
	ClosedAt    time.Time      `json:"closed_at,omitempty"`
	Status      StrategyStatus `json:"status"`
}
