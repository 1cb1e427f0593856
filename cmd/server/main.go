// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// Package main is the entry point for the Marquee server.
//
// Marquee is a catalog page composition engine for streaming platforms.
// Editors curate pages ("home", "kids") out of sections, pin content into
// sections with priorities and scheduling windows, and the composition
// service renders pages for viewers with optional per-profile
// personalization.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, config file,
//     environment variables)
//  2. Database: DuckDB catalog store (content, pages, sections,
//     placements, recommendation scores)
//  3. Score provider: database-backed or remote HTTP scorer behind a
//     circuit breaker
//  4. Composition service: concurrent section resolution with caching
//  5. Authentication: JWT, Basic Auth, or no-auth mode for admin routes
//  6. HTTP server: Chi-routed REST API under supervision
//
// # Configuration
//
// Everything is configurable via environment variables (highest priority)
// or a YAML file pointed at by CONFIG_PATH. Common settings:
//
//	export HTTP_PORT=8480
//	export DUCKDB_PATH=/data/marquee.duckdb
//	export AUTH_MODE=none          # development only
//	export SEED_MOCK_DATA=true     # demo catalog
//	./marquee
//
// Production with JWT:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ADMIN_USERNAME=admin
//	export ADMIN_PASSWORD=secure-password
//	export CORS_ORIGINS=https://studio.example.com
//	./marquee
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops
// accepting connections, in-flight requests get 10 seconds to finish, and
// the database closes last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marqueehq/marquee/internal/api"
	"github.com/marqueehq/marquee/internal/auth"
	"github.com/marqueehq/marquee/internal/compose"
	"github.com/marqueehq/marquee/internal/config"
	"github.com/marqueehq/marquee/internal/database"
	"github.com/marqueehq/marquee/internal/logging"
	"github.com/marqueehq/marquee/internal/recommend"
	"github.com/marqueehq/marquee/internal/supervisor"
	"github.com/marqueehq/marquee/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("score_provider", cfg.Recommend.Provider).
		Msg("Starting Marquee")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock catalog seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockCatalog(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Failed to seed mock catalog")
		}
	}

	// Score provider for the personalization hook. The remote provider
	// sits behind a circuit breaker so a misbehaving scorer degrades
	// pages to editorial order instead of slowing every render.
	var scores recommend.ScoreProvider
	switch cfg.Recommend.Provider {
	case "http":
		scores = recommend.NewHTTPProvider(&cfg.Recommend)
		logging.Info().Str("url", cfg.Recommend.URL).Msg("Remote score provider enabled")
	default:
		scores = recommend.NewDBProvider(db)
		logging.Info().Msg("Database score provider enabled")
	}

	composeSvc := compose.New(db, scores, &cfg.Compose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var jwtManager *auth.JWTManager
	var basicAuthManager *auth.BasicAuthManager

	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	case "basic":
		basicAuthManager, err = auth.NewBasicAuthManager(
			cfg.Security.AdminUsername,
			cfg.Security.AdminPassword,
		)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
		logging.Info().Msg("Basic authentication enabled")
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
	case "none":
		logging.Warn().Msg("SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("Catalog mutation endpoints are publicly accessible. Never use this outside development.")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("SECURITY WARNING: CORS allows any origin (CORS_ORIGINS=*) while authentication is enabled")
		logging.Warn().Msg("Set explicit origins in production: CORS_ORIGINS=https://studio.example.com")
	}

	authMW := auth.NewMiddleware(jwtManager, basicAuthManager, cfg.Security.AuthMode)
	handler := api.NewHandler(db, composeSvc, cfg, jwtManager)
	router := api.NewRouter(handler, authMW, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Marquee stopped gracefully")
}
