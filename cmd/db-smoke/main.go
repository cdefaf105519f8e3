package main

import (
	"context"
	"fmt"
	"os"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/database"
	"valorant-sync/internal/db"
	"valorant-sync/internal/logger"
	"valorant-sync/internal/repository"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type smokeConfig struct {
	DBPath   string `env:"DB_PATH" envDefault:"valorant.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

func main() {
	_ = godotenv.Load()

	var sc smokeConfig
	if err := env.Parse(&sc); err != nil {
		fmt.Fprintln(os.Stderr, "parse env:", err)
		os.Exit(1)
	}
	log := logger.SetLevel(logger.ParseLevel(sc.LogLevel))

	if err := run(&config.Config{DBPath: sc.DBPath}, log); err != nil {
		log.Fatal().Err(err).Msg("db smoke check failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	sqlDB, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	count, err := repository.NewPlayerRepository(db.New(sqlDB), log).Count(ctx)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	fmt.Println("Player count:", count)
	return nil
}
