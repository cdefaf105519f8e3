package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("HENRIKDEV_API_KEY is required")

type Config struct {
	HDevAPIKey    string        `env:"HENRIKDEV_API_KEY"`
	HDevBaseURL   string        `env:"HENRIKDEV_BASE_URL" envDefault:"https://api.henrikdev.xyz/valorant"`
	DBPath        string        `env:"DB_PATH" envDefault:"valorant.db"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ServerPort    string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SyncCooldown  time.Duration `env:"SYNC_COOLDOWN" envDefault:"5m"`
	DefaultRegion string        `env:"DEFAULT_REGION" envDefault:"na"`

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool `env:"-"`
}

func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DotEnvLoaded = loaded

	if cfg.HDevAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.SyncCooldown < 0 {
		return nil, fmt.Errorf("SYNC_COOLDOWN must not be negative, got %s", cfg.SyncCooldown)
	}

	return cfg, nil
}
