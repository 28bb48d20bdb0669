package market

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	"pionex_bot/internal/modules/market/service"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
)

func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			func(cfg *config.Config, client *pionexsvc.Client, log *zap.Logger) *service.Service {
				return service.NewService(cfg, client, log)
			},
		),
	)
}
