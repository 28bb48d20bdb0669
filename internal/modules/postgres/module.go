package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	"pionex_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster, log), nil
			},
		),
	)
}
