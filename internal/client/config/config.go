// Package config loads the client-facing settings. The endpoint and the
// public API key are the two required values; the entry point overlays an
// optional .env file before Load runs, and absence of either value is a
// fatal startup error with no fallback.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the townsquare client core.
type Config struct {
	// Endpoint is the backend base address.
	Endpoint string `env:"TOWNSQUARE_ENDPOINT,required"`

	// APIKey is the public API key presented on every backend call.
	APIKey string `env:"TOWNSQUARE_API_KEY,required"`

	// SecretsPath locates the local store for persisted session tokens.
	SecretsPath string `env:"TOWNSQUARE_SECRETS_PATH" envDefault:"townsquare.db"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
