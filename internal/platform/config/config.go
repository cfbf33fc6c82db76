// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (token codec, services, DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the account API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Origin is a comma separated list of browser origins allowed by CORS.
	Origin string `env:"ORIGIN"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	Tokens Tokens
	Mail   Mail   `envPrefix:"MAIL_"`
	Avatar Avatar `envPrefix:"S3_"`
}

// Tokens holds one secret and one lifetime per token kind.
type Tokens struct {
	ActivationSecret string        `env:"ACTIVATION_TOKEN_SECRET,required,notEmpty"`
	AccessSecret     string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshSecret    string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	ActivationTTL    time.Duration `env:"ACTIVATION_TOKEN_TTL" envDefault:"5m"`
	AccessTTL        time.Duration `env:"ACCESS_TOKEN_TTL"     envDefault:"5m"`
	RefreshTTL       time.Duration `env:"REFRESH_TOKEN_TTL"    envDefault:"72h"`

	// Leeway is the clock-skew grace applied when checking expiry.
	Leeway time.Duration `env:"TOKEN_LEEWAY" envDefault:"2s"`

	// SessionTTL is the expiry of the cached session snapshot.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
}

// Mail selects and configures the activation email provider.
type Mail struct {
	// Provider is one of "log", "mailgun", "sendgrid".
	Provider string `env:"PROVIDER" envDefault:"log"`
	From     string `env:"FROM"     envDefault:"no-reply@localhost"`

	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunKey    string `env:"MAILGUN_KEY"`
	SendGridKey   string `env:"SENDGRID_KEY"`
}

// Avatar configures the S3-compatible bucket holding profile pictures.
type Avatar struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"     envDefault:"avatars"`
	Region    string `env:"REGION"     envDefault:"auto"`
	UseSSL    bool   `env:"USE_SSL"    envDefault:"true"`
	PublicURL string `env:"PUBLIC_URL"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits [Config.Origin] into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Origin, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// AvatarStorageEnabled reports whether object storage is configured.
func (c *Config) AvatarStorageEnabled() bool {
	return c.Avatar.Endpoint != ""
}
