package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"
	fxmodules "valorant-sync/internal/fx"
	"valorant-sync/internal/middleware"
	"valorant-sync/internal/server"

	"github.com/go-redis/redis/v8"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	httpServer *server.HTTPServer,
	trackerServer *server.TrackerServer,
	cfg *config.Config,
	db *sql.DB,
	redisClient *redis.Client,
	logger zerolog.Logger,
) {
	logger.Info().
		Bool("dotenv", cfg.DotEnvLoaded).
		Str("region", cfg.DefaultRegion).
		Dur("sync_cooldown", cfg.SyncCooldown).
		Msg("configuration loaded")

	mux := http.NewServeMux()
	httpServer.Register(mux)

	path, handler := server.NewTrackerHandler(trackerServer)
	mux.Handle(path, handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Cache", middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.RequestID(logger)(c.Handler(mux)),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn().Err(err).Msg("redis unreachable, serving without cache")
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := redisClient.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing redis client")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
