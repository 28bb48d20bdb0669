package strategy

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	marketsvc "pionex_bot/internal/modules/market/service"
	"pionex_bot/internal/modules/strategy/service"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(cfg *config.Config, market *marketsvc.Service, log *zap.Logger) *service.Engine {
				return service.NewEngine(cfg, market, log)
			},
		),
	)
}
