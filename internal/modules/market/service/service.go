package service

import (
	"context"

	"go.uber.org/zap"

	"pionex_bot/internal/models"
	"pionex_bot/internal/modules/config"
)

// KlinesAPI — то, что нормализатору нужно от REST-клиента.
type KlinesAPI interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]byte, error)
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}

// Service достаёт рыночные данные и приводит их к единому виду.
type Service struct {
	cfg *config.Config
	api KlinesAPI
	log *zap.Logger
}

func NewService(cfg *config.Config, api KlinesAPI, log *zap.Logger) *Service {
	return &Service{
		cfg: cfg,
		api: api,
		log: log.With(zap.String("component", "market")),
	}
}

// Candles возвращает OHLCV-ряд по символу. Пустой ряд — "нет данных",
// ошибки транспорта уходят как есть.
func (s *Service) Candles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	if interval == "" {
		interval = s.cfg.DefaultInterval
	}
	if limit <= 0 {
		limit = s.cfg.KlineLimit
	}

	raw, err := s.api.GetKlines(ctx, symbol, MapInterval(interval), limit)
	if err != nil {
		return nil, err
	}

	candles := ParseKlines(raw)
	if len(candles) == 0 {
		s.log.Warn("no klines data", zap.String("symbol", symbol), zap.String("interval", interval))
	}
	return candles, nil
}

// CurrentPrice — последняя цена символа; 0 значит "цены нет".
func (s *Service) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return s.api.GetTickerPrice(ctx, symbol)
}
