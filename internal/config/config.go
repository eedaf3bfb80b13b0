// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the simulator binary needs at startup.
type Config struct {
	Port   int    `env:"MGMTSIM_PORT" envDefault:"8080"`
	DBPath string `env:"MGMTSIM_DB" envDefault:"data/sessions.db"`

	PlayerName string `env:"MGMTSIM_PLAYER" envDefault:"Alex"`

	Seed          int64 `env:"MGMTSIM_SEED" envDefault:"42"`
	PeriodSeconds int   `env:"MGMTSIM_PERIOD_SECONDS" envDefault:"60"`
	MinProgress   int   `env:"MGMTSIM_MIN_PROGRESS" envDefault:"100"`
	Strict        bool  `env:"MGMTSIM_STRICT" envDefault:"false"`

	MoodCancelThreshold float64 `env:"MGMTSIM_MOOD_CANCEL" envDefault:"0"`

	StartBudget     int `env:"MGMTSIM_START_BUDGET" envDefault:"50000"`
	StartReputation int `env:"MGMTSIM_START_REPUTATION" envDefault:"50"`

	AdminKey string `env:"MGMTSIM_ADMIN_KEY"`
	LogLevel string `env:"MGMTSIM_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
