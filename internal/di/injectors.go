//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/y-exe/ymkw-top/internal"
	"github.com/y-exe/ymkw-top/internal/controllers"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/services"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,
		providers.NewRateLimiter,

		upstream.NewStatsClient,
		services.NewDashboardService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
