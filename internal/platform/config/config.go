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
  - DI-Friendly: Passed to core components (DB, Redis, search engine) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the poster search API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL with pg_trgm)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the search result cache.
	RedisURL string `env:"REDIS_URL"`

	// Search engine tuning
	SearchThreshold   float64       `env:"SEARCH_THRESHOLD"    envDefault:"0.35"`
	SearchCacheTTL    time.Duration `env:"SEARCH_CACHE_TTL"    envDefault:"5m"`
	SearchLexiconPath string        `env:"SEARCH_LEXICON_PATH"`
	SearchWorkers     int           `env:"SEARCH_WORKERS"      envDefault:"4"`
	SearchTimeout     time.Duration `env:"SEARCH_TIMEOUT"      envDefault:"3s"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
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

	if cfg.SearchThreshold <= 0 || cfg.SearchThreshold > 1 {
		return nil, fmt.Errorf("config: SEARCH_THRESHOLD must be in (0, 1], got %v", cfg.SearchThreshold)
	}
	if cfg.SearchWorkers < 1 {
		return nil, fmt.Errorf("config: SEARCH_WORKERS must be positive, got %d", cfg.SearchWorkers)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowsOrigin reports whether origin is listed in EXTRA_ORIGINS.
// Entries starting with a dot match any subdomain.
func (c *Config) AllowsOrigin(origin string) bool {
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}

	for _, allowed := range c.ExtraOrigins {
		allowed = strings.TrimSpace(allowed)
		switch {
		case allowed == "":
			continue
		case allowed == origin || allowed == host:
			return true
		case strings.HasPrefix(allowed, ".") && strings.HasSuffix(host, allowed):
			return true
		}
	}
	return false
}
