package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
	"pionex_bot/internal/modules/futures"
	"pionex_bot/internal/modules/market"
	"pionex_bot/internal/modules/pionex"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
	"pionex_bot/internal/modules/postgres"
	"pionex_bot/internal/modules/strategy"
	"pionex_bot/internal/modules/stream"
	streamsvc "pionex_bot/internal/modules/stream/service"
	"pionex_bot/internal/notify"
	"pionex_bot/pkg/logger"
	"pionex_bot/pkg/tracing"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func() (*zap.Logger, error) {
				return logger.New("pionex_bot")
			},
		),
		config.Module(),
		postgres.Module(),
		pionex.Module(),
		market.Module(),
		strategy.Module(),
		futures.Module(),
		stream.Module(),
		notify.Module(),
		fx.Invoke(registerTracing, registerStream, checkExchange),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config, logg *zap.Logger) {
	var closeTracer func()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			_, closeTracer, err = tracing.InitTracer(tracing.Config{
				ServiceName: "pionex_bot",
				Host:        cfg.Jaeger.Host,
				Port:        cfg.Jaeger.Port,
			}, logg)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if closeTracer != nil {
				closeTracer()
			}
			return nil
		},
	})
}

func registerStream(lc fx.Lifecycle, client *streamsvc.Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Connect(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			client.Close()
			return nil
		},
	})
}

func checkExchange(lc fx.Lifecycle, client *pionexsvc.Client, logg *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.TestConnection(ctx); err != nil {
				logg.Warn("exchange connectivity check failed", zap.Error(err))
				return nil
			}
			logg.Info("exchange connection OK")
			return nil
		},
	})
}
