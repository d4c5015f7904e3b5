//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"leadtrack/internal"
	"leadtrack/internal/controllers"
	"leadtrack/internal/providers"
	"leadtrack/internal/services"
	"leadtrack/internal/storage"
	"leadtrack/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewStores,
		storage.NewScheduler,
		storage.ProvideLeadStore,
		storage.ProvideCheckStore,
		storage.ProvideMappingStore,

		services.NewTrackingService,
		services.NewStatsService,

		controllers.NewTrackController,
		controllers.NewCheckController,
		controllers.NewStatsController,
		controllers.NewMappingController,
		controllers.NewCheckIPController,
		controllers.NewHealthController,

		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
