package fx

import (
	"database/sql"
	"valorant-sync/internal/api"
	"valorant-sync/internal/cache"
	"valorant-sync/internal/config"
	"valorant-sync/internal/database"
	"valorant-sync/internal/db"
	"valorant-sync/internal/logger"
	"valorant-sync/internal/repository"
	"valorant-sync/internal/server"
	"valorant-sync/internal/service"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideCache(client *redis.Client) *cache.Store {
	return cache.New(cache.NewRedisBackend(client))
}

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(cache.NewRedisClient),
	fx.Provide(ProvideCache),
	// repos
	fx.Provide(
		fx.Annotate(repository.NewPlayerRepository, fx.As(new(service.PlayerStore))),
		fx.Annotate(repository.NewMatchRepository, fx.As(new(service.MatchStore))),
	),
	// api client
	fx.Provide(
		fx.Annotate(
			api.NewHDevClient,
			fx.As(new(service.Upstream)),
			fx.As(new(server.RateLimitReporter)),
		),
	),
	// svc
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewListingService),
	fx.Provide(service.NewProxyService),
	// server
	fx.Provide(server.NewHTTPServer),
	fx.Provide(server.NewTrackerServer),
)
