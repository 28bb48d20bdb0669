package models

// Action — решение стратегии.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// IndicatorSnapshot — значения индикаторов на момент решения.
// Заполняются только те поля, которые стратегия реально считала.
type IndicatorSnapshot struct {
	RSI           float64  `json:"rsi,omitempty"`
	RSIShortTF    float64  `json:"rsi_short_tf,omitempty"`
	RSILongTF     float64  `json:"rsi_long_tf,omitempty"`
	MACDCrossover string   `json:"macd_crossover,omitempty"`
	VolumeRatio   float64  `json:"volume_ratio,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	BBBandwidth   float64  `json:"bb_bandwidth,omitempty"`
	OBV           float64  `json:"obv,omitempty"`
	Support       *float64 `json:"support,omitempty"`
	Resistance    *float64 `json:"resistance,omitempty"`
	TrendSlope    float64  `json:"trend_slope,omitempty"`
}

// Signal — результат оценки стратегии. После создания не изменяется.
type Signal struct {
	Action     Action            `json:"action"`
	Symbol     string            `json:"symbol,omitempty"`
	Quantity   float64           `json:"quantity,omitempty"`
	Price      float64           `json:"price,omitempty"`
	StopLoss   float64           `json:"stop_loss,omitempty"`
	TakeProfit float64           `json:"take_profit,omitempty"`
	Indicators IndicatorSnapshot `json:"indicators"`
	Reason     string            `json:"reason"`
}

// Hold — сигнал "ничего не делаем" с причиной.
func Hold(reason string) Signal {
	return Signal{Action: ActionHold, Reason: reason}
}
