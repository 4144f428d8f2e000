package main

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

const minSecretLen = 32

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`

	WriteRateLimit    int `envconfig:"WRITE_RATE_LIMIT" default:"60"`
	RateWindowSeconds int `envconfig:"RATE_WINDOW_SECONDS" default:"60"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return Config{}, errors.New("JWT_SECRET must be at least 32 chars")
	}
	return cfg, nil
}
