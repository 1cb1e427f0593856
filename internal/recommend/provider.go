// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// Package recommend supplies per-profile content scores to the page
// composition service.
//
// Two providers implement the ScoreProvider interface: a local provider
// reading the recommendations table, and an HTTP provider calling a
// remote scoring service behind a rate limiter and circuit breaker.
// Scores are advisory: every provider failure degrades to editorial
// ordering, never to a failed page.
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/database"
	"github.com/marqueehq/marquee/internal/metrics"
)

// ScoreProvider returns a profile's scores for the given content IDs.
// Content without a score is simply absent from the result map.
type ScoreProvider interface {
	ScoresFor(ctx context.Context, profileID string, contentIDs []uuid.UUID) (map[uuid.UUID]float64, error)
}

// DBProvider reads scores from the local recommendations table. This is
// the default provider; score batches arrive through the admin bulk
// upsert endpoint.
type DBProvider struct {
	db *database.DB
}

// NewDBProvider creates a provider backed by the catalog database.
func NewDBProvider(db *database.DB) *DBProvider {
	return &DBProvider{db: db}
}

// ScoresFor implements ScoreProvider.
func (p *DBProvider) ScoresFor(ctx context.Context, profileID string, contentIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	start := time.Now()
	scores, err := p.db.RecommendationScores(ctx, profileID, contentIDs)
	if err != nil {
		metrics.RecordRecommendRequest("db", "error", time.Since(start))
		return nil, err
	}
	metrics.RecordRecommendRequest("db", "ok", time.Since(start))
	return scores, nil
}
