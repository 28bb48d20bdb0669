package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New собирает zap-логгер сервиса. Все компоненты получают его через fx.
func New(serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", serviceName)), nil
}

// NewNop — заглушка для тестов.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
