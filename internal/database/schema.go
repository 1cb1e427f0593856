// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
schema.go - Database Schema Management

This file manages the DuckDB catalog schema: table creation and index
management.

Tables:
  - content: Placeable catalog entries (movies, series, episodes, collections)
  - pages: Named pages addressed by unique URL-safe name
  - sections: Ordered rows within a page, unique per (page_id, name)
  - content_placements: Content pinned into sections with priority and
    an optional scheduling window, unique per (content_id, section_id)
  - recommendations: Per-profile affinity scores keyed by
    (profile_id, content_id)

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements. Tags are
stored as a JSON-encoded TEXT column; DuckDB LIST columns do not scan
cleanly through database/sql.

Index Strategy:
Indexes cover the hot read path of page composition: sections by page in
display order, placements by section, and recommendation lookups by
profile.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core catalog tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS content (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			synopsis TEXT,
			poster_url TEXT,
			tags TEXT,
			release_date TIMESTAMP,
			is_premium BOOLEAN NOT NULL DEFAULT false,
			is_featured BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS pages (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sections (
			id UUID PRIMARY KEY,
			page_id UUID NOT NULL,
			name TEXT NOT NULL,
			title TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			layout_type TEXT NOT NULL DEFAULT 'rail',
			item_limit INTEGER NOT NULL DEFAULT 0,
			personalized BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (page_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS content_placements (
			id UUID PRIMARY KEY,
			content_id UUID NOT NULL,
			section_id UUID NOT NULL,
			priority INTEGER NOT NULL DEFAULT 100,
			start_date TIMESTAMP,
			end_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (content_id, section_id)
		)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			profile_id TEXT NOT NULL,
			content_id UUID NOT NULL,
			score DOUBLE NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (profile_id, content_id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes for the page composition read path.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_sections_page ON sections (page_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_section ON content_placements (section_id)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_content ON content_placements (content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_profile ON recommendations (profile_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
