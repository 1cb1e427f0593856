// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// Package config loads and validates Marquee configuration.
//
// Configuration is loaded via Koanf v2 with layered sources
// (highest priority wins):
//   - Environment variables (SERVER_PORT, DUCKDB_PATH, AUTH_MODE, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
package config

import "time"

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Compose   ComposeConfig   `koanf:"compose"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file, or ":memory:" for an in-memory store.
	Path string `koanf:"path"`

	// MaxMemory limits DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedMockData populates a demo catalog at startup (for local
	// development and screenshot environments).
	SeedMockData bool `koanf:"seed_mock_data"`
}

// ComposeConfig tunes the page composition service.
type ComposeConfig struct {
	// SectionTimeout bounds a single section's resolution during a page
	// render. A timed-out section is reported as a per-section failure,
	// never as a whole-page failure.
	SectionTimeout time.Duration `koanf:"section_timeout"`

	// DefaultItemLimit applies when neither the request nor the section
	// configures a cap. 0 means unbounded.
	DefaultItemLimit int `koanf:"default_item_limit"`

	// MaxItemLimit caps the limit accepted from requests.
	MaxItemLimit int `koanf:"max_item_limit"`

	// CacheTTL is the TTL for cached wall-clock page renders.
	// Renders with an explicit evaluation instant bypass the cache.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// RecommendConfig configures the recommendation score provider used by
// personalized sections.
type RecommendConfig struct {
	// Provider selects the score source: "db" (recommendations table)
	// or "http" (remote scoring service).
	Provider string `koanf:"provider"`

	// URL is the remote scoring service base URL (http provider).
	URL string `koanf:"url"`

	// Timeout bounds a single remote score fetch.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond rate-limits calls to the remote scorer. 0 disables
	// client-side limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerMinRequests is the minimum request count before the circuit
	// breaker considers opening.
	BreakerMinRequests uint32 `koanf:"breaker_min_requests"`

	// BreakerFailureRatio opens the circuit at or above this failure rate.
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`

	// BreakerTimeout is the open-state duration before a half-open probe.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds authentication and request-policy settings.
type SecurityConfig struct {
	// AuthMode is one of "jwt", "basic", or "none".
	AuthMode string `koanf:"auth_mode"`

	// JWTSecret signs tokens in jwt mode. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// IsDevelopment returns true when the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

// ShouldWarnAboutCORS reports whether the CORS configuration combines a
// wildcard origin with enabled authentication, which allows any site to
// relay authenticated requests.
func (c *Config) ShouldWarnAboutCORS() bool {
	if c.Security.AuthMode == "none" {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
