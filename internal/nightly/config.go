package nightly

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Player struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

func (p Player) String() string {
	return p.Name + "#" + p.Tag
}

// PlayerList decodes SYNC_PLAYERS, a JSON array of {name, tag}. Entries
// missing either part are dropped.
type PlayerList []Player

func (l *PlayerList) UnmarshalText(text []byte) error {
	var raw []Player
	if err := json.Unmarshal(text, &raw); err != nil {
		return fmt.Errorf("SYNC_PLAYERS must be a JSON array of {name, tag}: %w", err)
	}

	players := make(PlayerList, 0, len(raw))
	for _, p := range raw {
		p.Name = strings.TrimSpace(p.Name)
		p.Tag = strings.TrimSpace(p.Tag)
		if p.Name == "" || p.Tag == "" {
			continue
		}
		players = append(players, p)
	}
	*l = players
	return nil
}

type Config struct {
	BaseURL     string     `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Region      string     `env:"SYNC_REGION" envDefault:"na"`
	Size        int        `env:"SYNC_SIZE" envDefault:"10"`
	Players     PlayerList `env:"SYNC_PLAYERS" envDefault:"[]"`
	Concurrency int        `env:"SYNC_CONCURRENCY" envDefault:"2"`
	LogLevel    string     `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}
