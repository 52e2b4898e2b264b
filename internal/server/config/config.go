// Package config loads backend configuration from environment variables.
// An optional .env file is overlaid by the entry point before Load runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the townsquare backend.
type Config struct {
	// DatabaseDSN is the PostgreSQL DSN (pgx stdlib driver).
	DatabaseDSN string `env:"TOWNSQUARE_DATABASE_DSN,required"`

	// JWTSecret signs access tokens (HS256).
	JWTSecret string `env:"TOWNSQUARE_JWT_SECRET,required"`

	// APIKey is the public key clients must present. It grants nothing by
	// itself; row access is decided by the policy layer per identity.
	APIKey string `env:"TOWNSQUARE_API_KEY,required"`

	AccessTokenTTL  time.Duration `env:"TOWNSQUARE_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"TOWNSQUARE_REFRESH_TOKEN_TTL" envDefault:"720h"`

	// BcryptCost is the cost factor for password hashing.
	BcryptCost int `env:"TOWNSQUARE_BCRYPT_COST" envDefault:"10"`

	// Object storage (S3-compatible) settings.
	S3AccessKey     string `env:"TOWNSQUARE_S3_ACCESS_KEY,required"`
	S3SecretKey     string `env:"TOWNSQUARE_S3_SECRET_KEY,required"`
	S3Bucket        string `env:"TOWNSQUARE_S3_BUCKET" envDefault:"townsquare-media"`
	S3Region        string `env:"TOWNSQUARE_S3_REGION" envDefault:"us-east-1"`
	S3BaseEndpoint  string `env:"TOWNSQUARE_S3_ENDPOINT" envDefault:"http://127.0.0.1:9000/"`
	S3PublicBaseURL string `env:"TOWNSQUARE_S3_PUBLIC_URL" envDefault:"http://127.0.0.1:9000"`
}

// Load parses environment variables into a Config. Missing required
// variables are a fatal startup condition surfaced as an error here;
// there is no silent fallback.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
