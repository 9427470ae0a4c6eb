//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"studytime/internal"
	"studytime/internal/controllers"
	"studytime/internal/persistence"
	"studytime/internal/providers"
	"studytime/internal/services"
	"studytime/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewStoreProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewAuthProvider,
		providers.NewClockProvider,

		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,

		services.NewAccountService,
		services.NewSubjectService,
		services.NewLeaderboardService,
		services.NewAchievementService,
		services.NewAggregatorService,
		services.NewSessionService,
		services.NewStatsService,
		services.NewNotificationService,
		services.NewGroupService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
