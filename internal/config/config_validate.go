// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateCompose(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateCompose() error {
	if c.Compose.SectionTimeout <= 0 {
		return fmt.Errorf("COMPOSE_SECTION_TIMEOUT must be positive, got %s", c.Compose.SectionTimeout)
	}
	if c.Compose.DefaultItemLimit < 0 {
		return fmt.Errorf("COMPOSE_DEFAULT_ITEM_LIMIT must be >= 0, got %d", c.Compose.DefaultItemLimit)
	}
	if c.Compose.MaxItemLimit < 1 {
		return fmt.Errorf("COMPOSE_MAX_ITEM_LIMIT must be >= 1, got %d", c.Compose.MaxItemLimit)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	switch c.Recommend.Provider {
	case "db":
		return nil
	case "http":
		if c.Recommend.URL == "" {
			return fmt.Errorf("RECOMMEND_URL is required when RECOMMEND_PROVIDER=http")
		}
		if !strings.HasPrefix(c.Recommend.URL, "http://") && !strings.HasPrefix(c.Recommend.URL, "https://") {
			return fmt.Errorf("RECOMMEND_URL must start with http:// or https://, got %q", c.Recommend.URL)
		}
		if c.Recommend.BreakerFailureRatio <= 0 || c.Recommend.BreakerFailureRatio > 1 {
			return fmt.Errorf("RECOMMEND_BREAKER_FAILURE_RATIO must be in (0, 1], got %f", c.Recommend.BreakerFailureRatio)
		}
		return nil
	default:
		return fmt.Errorf("RECOMMEND_PROVIDER must be 'db' or 'http', got %q", c.Recommend.Provider)
	}
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when AUTH_MODE=jwt")
		}
	case "basic":
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when AUTH_MODE=basic")
		}
		if len(c.Security.AdminPassword) < 8 {
			return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
		}
	case "none":
		// Development only - logged loudly at startup.
	default:
		return fmt.Errorf("AUTH_MODE must be 'jwt', 'basic', or 'none', got %q", c.Security.AuthMode)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be >= 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL must be a valid level, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console", "":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
}
