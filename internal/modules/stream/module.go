package stream

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	"pionex_bot/internal/modules/stream/service"
)

func Module() fx.Option {
	return fx.Module("stream",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) *service.Client {
				return service.NewClient(cfg, log)
			},
		),
	)
}
