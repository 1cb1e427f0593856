// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"time"

	"github.com/marqueehq/marquee/internal/auth"
	"github.com/marqueehq/marquee/internal/compose"
	"github.com/marqueehq/marquee/internal/config"
	"github.com/marqueehq/marquee/internal/database"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Shared response and parsing helpers
//   - handlers_pages.go: Public page composition and section endpoints
//   - handlers_health.go: Health and readiness endpoints
//   - handlers_auth.go: Login endpoint
//   - handlers_content.go: Admin content CRUD
//   - handlers_catalog.go: Admin page and section CRUD
//   - handlers_placements.go: Admin placement CRUD
//   - handlers_recommendations.go: Recommendation score ingest
type Handler struct {
	db         *database.DB
	compose    *compose.Service
	config     *config.Config
	jwtManager *auth.JWTManager
	startTime  time.Time
}

// NewHandler creates an API handler with all required dependencies.
// jwtManager may be nil when the auth mode does not issue tokens.
func NewHandler(db *database.DB, composeSvc *compose.Service, cfg *config.Config, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		db:         db,
		compose:    composeSvc,
		config:     cfg,
		jwtManager: jwtManager,
		startTime:  time.Now(),
	}
}
