package main

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config is the full environment surface of the service. Parsed once in
// main; components receive values explicitly instead of reading the
// environment themselves.
type Config struct {
	Port           int    `env:"PORT" envDefault:"5200"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	// GatewayToken authenticates requests forwarded by the Gateway.
	GatewayToken string `env:"SEASON_SERVICE_TOKEN,required"`

	// Profile service feeding the SeasonPlayer mirror.
	ProfileServiceURL   string `env:"PROFILE_SERVICE_URL"`
	ProfileServicePath  string `env:"PROFILE_SERVICE_PATH" envDefault:"/api/v1/public/profiles"`
	ProfileServiceToken string `env:"PROFILE_SERVICE_TOKEN"`

	// Redis leaderboard cache; empty disables caching.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	SnapshotIntervalMins int `env:"SNAPSHOT_INTERVAL_MINS" envDefault:"60"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
