// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/models"
)

// UpsertRecommendations inserts or replaces a profile's scores in a single
// transaction. Existing scores for content not in the batch are left
// untouched; upstream pipelines send full per-profile refreshes when they
// need replacement semantics.
func (db *DB) UpsertRecommendations(ctx context.Context, profileID string, scores []models.RecommendationScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	query := `INSERT INTO recommendations (profile_id, content_id, score, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile_id, content_id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx, query, profileID, s.ContentID, s.Score, now); err != nil {
			return fmt.Errorf("failed to upsert recommendation for content %s: %w", s.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", classify(err))
	}
	return nil
}

// RecommendationScores retrieves a profile's scores for the given content
// IDs. Content without a score is absent from the result.
func (db *DB) RecommendationScores(ctx context.Context, profileID string, contentIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	if len(contentIDs) == 0 {
		return map[uuid.UUID]float64{}, nil
	}

	placeholders := strings.Repeat("?,", len(contentIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`SELECT content_id, score FROM recommendations
		WHERE profile_id = ? AND content_id IN (%s)`, placeholders)

	args := make([]interface{}, 0, len(contentIDs)+1)
	args = append(args, profileID)
	for _, id := range contentIDs {
		args = append(args, id)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", classify(err))
	}
	defer rows.Close()

	scores := make(map[uuid.UUID]float64)
	for rows.Next() {
		var contentID uuid.UUID
		var score float64
		if err := rows.Scan(&contentID, &score); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", classify(err))
		}
		scores[contentID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", classify(err))
	}
	return scores, nil
}

// DeleteRecommendations removes all scores for a profile.
func (db *DB) DeleteRecommendations(ctx context.Context, profileID string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM recommendations WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("failed to delete recommendations: %w", classify(err))
	}
	return nil
}
