package pionex

import (
	"go.uber.org/fx"

	"pionex_bot/internal/modules/pionex/service"
)

func Module() fx.Option {
	return fx.Module("pionex",
		fx.Provide(
			service.NewClient,
		),
	)
}
