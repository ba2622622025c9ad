// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

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
  - DI-Friendly: Passed to core components (hasher, synthesizer) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/labramp/backbone/internal/platform/constants"
)

// Session backend selectors accepted by SESSION_BACKEND.
const (
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Backbone API server.
type Config struct {

	// Server settings
	ServiceName string `env:"SERVICE_NAME" envDefault:"api"`
	ServerPort  string `env:"SERVER_PORT"  envDefault:"9000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Only required when SessionBackend is "redis".
	RedisURL string `env:"REDIS_URL"`

	// SessionBackend selects the session store implementation.
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"postgres"`

	// HashIterations is the PBKDF2 iteration count for newly stored hashes.
	// Raising it does not invalidate existing hashes: stale counts are
	// upgraded transparently on the next successful login.
	HashIterations int `env:"HASH_ITERATIONS" envDefault:"600000"`

	// EnableRequestAudit toggles the per-request audit log record.
	EnableRequestAudit bool `env:"ENABLE_REQUEST_AUDIT" envDefault:"true"`
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

	if cfg.SessionBackend != SessionBackendPostgres && cfg.SessionBackend != SessionBackendRedis {
		return nil, fmt.Errorf("config: unknown session backend %q", cfg.SessionBackend)
	}

	if cfg.SessionBackend == SessionBackendRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: REDIS_URL is required when SESSION_BACKEND=redis")
	}

	if cfg.HashIterations < constants.DefaultHashIterations {
		// The iteration count is tunable upward only. Silently weakening the
		// hasher through the environment is not allowed.
		return nil, fmt.Errorf("config: HASH_ITERATIONS must be at least %d", constants.DefaultHashIterations)
	}

	return cfg, nil
}

// APIPrefix returns the versioned route prefix, e.g. "/api/v1".
func (c *Config) APIPrefix() string {
	return "/" + c.ServiceName + "/v1"
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
