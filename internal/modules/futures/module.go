package futures

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	"pionex_bot/internal/modules/futures/service"
	"pionex_bot/internal/modules/futures/service/pg"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
	"pionex_bot/internal/notify"
	"pionex_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("futures",
		fx.Provide(
			func(txm *db.PgTxManager) service.StrategyStore {
				return pg.NewStrategies(txm)
			},
			func(client *pionexsvc.Client, cfg *config.Config, store service.StrategyStore, notifier notify.Notifier, log *zap.Logger) *service.Manager {
				return service.NewManager(client, cfg, store, notifier, log)
			},
		),
	)
}
