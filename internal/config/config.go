// Package config loads the divyield settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Provider     string        `env:"DIVYIELD_PROVIDER" envDefault:"yahoo"`
	LogLevel     string        `env:"DIVYIELD_LOG_LEVEL" envDefault:"warn"`
	LogOutput    []string      `env:"DIVYIELD_LOG_OUTPUT" envDefault:"stderr"`
	HTTPTimeout  time.Duration `env:"DIVYIELD_HTTP_TIMEOUT" envDefault:"30s"`
	RateInterval time.Duration `env:"DIVYIELD_RATE_INTERVAL" envDefault:"250ms"`

	EODHD EODHDConfig `envPrefix:"EODHD_"`
	Yahoo YahooConfig `envPrefix:"YAHOO_"`
}

// EODHDConfig represents the eodhd.com provider configuration.
type EODHDConfig struct {
	APIKey   string `env:"API_KEY"`
	BaseURL  string `env:"BASE_URL" envDefault:"https://eodhd.com"`
	Exchange string `env:"EXCHANGE" envDefault:"US"`
}

// YahooConfig represents the Yahoo Finance provider configuration.
type YahooConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://query2.finance.yahoo.com"`
}

// Load loads the configuration from the environment, and from a .env file in the
// working directory if there is one.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Parse loads the configuration from environ only.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
