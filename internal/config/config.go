// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package config provides layered configuration for Chantier using Koanf v2.
// Sources in priority order (highest wins): environment variables, config
// file (config.yaml), built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout applies to request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Console logging and
	// relaxed CORS defaults only apply in development.
	Environment string `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "1GB"). Empty uses the
	// engine default.
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	// JWTSecret signs bearer tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the bearer token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RevocationStorePath is the BadgerDB directory for revoked tokens.
	RevocationStorePath string `koanf:"revocation_store_path"`

	// RateLimitReqs requests per RateLimitWindow for general endpoints.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the general rate-limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimitReqs requests per LoginRateLimitWindow for the login
	// endpoint (brute-force prevention).
	LoginRateLimitReqs int `koanf:"login_rate_limit_reqs"`

	// LoginRateLimitWindow is the login rate-limit window.
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`

	// LockoutMaxAttempts is the number of failed logins per account before
	// a temporary lockout.
	LockoutMaxAttempts int `koanf:"lockout_max_attempts"`

	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration time.Duration `koanf:"lockout_duration"`

	// CORSOrigins lists allowed origins. Empty denies cross-origin use.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for startup-blocking mistakes.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}
