package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"valorant-sync/internal/logger"
	"valorant-sync/internal/nightly"
)

func main() {
	log := logger.SetLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := nightly.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load nightly config")
	}
	log = log.Level(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := nightly.NewRunner(cfg, log).Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("nightly sync interrupted")
		stop()
		os.Exit(1)
	}
	for _, res := range results {
		if !res.OK() {
			log.Warn().Str("player", res.Player.String()).Msg("player not synced")
		}
	}
}
