package service

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"pionex_bot/internal/models"
)

// flexFloat терпит число, строку с числом и мусор. Мусор превращается в NaN,
// а не в ошибку: ряд с дыркой полезнее отброшенного ответа.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*f = flexFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type klineRow struct {
	Time   int64     `json:"time"`
	Open   flexFloat `json:"open"`
	High   flexFloat `json:"high"`
	Low    flexFloat `json:"low"`
	Close  flexFloat `json:"close"`
	Volume flexFloat `json:"volume"`
}

// ParseKlines нормализует сырой ответ klines в единый OHLCV-ряд.
// Известны две формы: data.klines и data-список. Неизвестная форма — пустой
// ряд, не ошибка: для вызывающих "нет данных" и "не та форма" неразличимы.
func ParseKlines(raw []byte) []models.Candle {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err != nil || len(envelope.Data) == 0 {
		return nil
	}

	var rows []klineRow

	var wrapped struct {
		Klines []klineRow `json:"klines"`
	}
	if err := sonic.Unmarshal(envelope.Data, &wrapped); err == nil && wrapped.Klines != nil {
		rows = wrapped.Klines
	} else if err := sonic.Unmarshal(envelope.Data, &rows); err != nil {
		return nil
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, models.Candle{
			Time:   time.UnixMilli(r.Time),
			Open:   float64(r.Open),
			High:   float64(r.High),
			Low:    float64(r.Low),
			Close:  float64(r.Close),
			Volume: float64(r.Volume),
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	return candles
}
