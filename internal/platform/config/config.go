// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Two schemas exist: [Config] for the console server and [CLIConfig] for the
operator command line, whose variables carry the COURTDESK_ prefix.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Console Schema

// Config holds all runtime configuration for the Courtdesk console server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Case-management REST API
	UpstreamURL     string        `env:"UPSTREAM_URL,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// Key-Value store (Redis) for browser sessions
	RedisURL string `env:"REDIS_URL,required"`

	// Relational Database (PostgreSQL) for the audit trail. Empty disables auditing.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Browser session cookie
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"courtdesk_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL"         envDefault:"12h"`
	CookieSecure      bool          `env:"COOKIE_SECURE"       envDefault:"true"`

	// LoginPath is where unauthenticated browser navigations are redirected.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// Cross-Origin Resource Sharing, comma separated
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Fails if any field marked 'required' is missing
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.UpstreamURL = strings.TrimRight(cfg.UpstreamURL, "/")
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

// AuditEnabled reports whether a database is configured for the audit trail.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

// AllowedOrigins splits [Config.ExtraOrigins] into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// # CLI Schema

// CLIConfig holds configuration for the courtctl command line.
type CLIConfig struct {
	UpstreamURL     string        `env:"UPSTREAM_URL"     envDefault:"http://localhost:8081/api"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// SessionFile is the bbolt file holding the persisted session.
	// Empty resolves to a file under the user's config directory.
	SessionFile string `env:"SESSION_FILE"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// LoadCLI parses COURTDESK_-prefixed environment variables into a [CLIConfig].
func LoadCLI() (*CLIConfig, error) {
	cfg := &CLIConfig{}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "COURTDESK_"}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.UpstreamURL = strings.TrimRight(cfg.UpstreamURL, "/")
	return cfg, nil
}
