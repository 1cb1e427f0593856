// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/metrics"
	"github.com/marqueehq/marquee/internal/models"
)

const contentColumns = `id, title, category, status, synopsis, poster_url, tags, release_date, is_premium, is_featured, created_at, updated_at`

// encodeTags serializes a tag list to the JSON TEXT column. Empty lists
// are stored as NULL.
func encodeTags(tags []string) (*string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// decodeTags deserializes the JSON TEXT tags column.
func decodeTags(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(*raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

func scanContent(scan func(dest ...interface{}) error) (models.Content, error) {
	var c models.Content
	var tags *string
	err := scan(&c.ID, &c.Title, &c.Category, &c.Status, &c.Synopsis, &c.PosterURL,
		&tags, &c.ReleaseDate, &c.IsPremium, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Tags, err = decodeTags(tags)
	return c, err
}

// InsertContent creates a catalog entry. Status defaults to draft.
func (db *DB) InsertContent(ctx context.Context, content *models.Content) error {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	if content.Status == "" {
		content.Status = models.ContentStatusDraft
	}
	now := time.Now().UTC()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.UpdatedAt = now

	tags, err := encodeTags(content.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO content (` + contentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		content.ID, content.Title, content.Category, content.Status,
		content.Synopsis, content.PosterURL, tags, content.ReleaseDate,
		content.IsPremium, content.IsFeatured, content.CreatedAt, content.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", classify(err))
	}
	return nil
}

// GetContent retrieves a catalog entry by ID.
func (db *DB) GetContent(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = ?`

	row := db.conn.QueryRowContext(ctx, query, id)
	c, err := scanContent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", classify(err))
	}
	return &c, nil
}

// ListContent retrieves catalog entries ordered by creation time,
// newest first.
func (db *DB) ListContent(ctx context.Context, limit, offset int) ([]models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", classify(err))
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", classify(err))
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content: %w", classify(err))
	}
	return items, nil
}

// ContentByIDs retrieves published content for the given IDs, keyed by ID.
// Draft, archived, and missing IDs are absent from the result; placement
// resolution treats all three the same way.
func (db *DB) ContentByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Content, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Content{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`SELECT `+contentColumns+` FROM content
		WHERE status = '%s' AND id IN (%s)`, models.ContentStatusPublished, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "content", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query content batch: %w", classify(err))
	}
	defer rows.Close()

	result := make(map[uuid.UUID]models.Content, len(ids))
	for rows.Next() {
		c, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", classify(err))
		}
		result[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content batch: %w", classify(err))
	}
	return result, nil
}

// UpdateContent applies a partial update to a catalog entry.
func (db *DB) UpdateContent(ctx context.Context, id uuid.UUID, req *models.UpdateContentRequest) (*models.Content, error) {
	current, err := db.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Category != nil {
		current.Category = *req.Category
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.Synopsis != nil {
		current.Synopsis = req.Synopsis
	}
	if req.PosterURL != nil {
		current.PosterURL = req.PosterURL
	}
	if req.Tags != nil {
		current.Tags = req.Tags
	}
	if req.ReleaseDate != nil {
		current.ReleaseDate = req.ReleaseDate
	}
	if req.IsPremium != nil {
		current.IsPremium = *req.IsPremium
	}
	if req.IsFeatured != nil {
		current.IsFeatured = *req.IsFeatured
	}
	current.UpdatedAt = time.Now().UTC()

	tags, err := encodeTags(current.Tags)
	if err != nil {
		return nil, err
	}

	query := `UPDATE content
		SET title = ?, category = ?, status = ?, synopsis = ?, poster_url = ?, tags = ?,
		    release_date = ?, is_premium = ?, is_featured = ?, updated_at = ?
		WHERE id = ?`

	if _, err := db.conn.ExecContext(ctx, query,
		current.Title, current.Category, current.Status, current.Synopsis,
		current.PosterURL, tags, current.ReleaseDate, current.IsPremium,
		current.IsFeatured, current.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("failed to update content: %w", classify(err))
	}
	return current, nil
}

// DeleteContent removes a catalog entry and any placements referencing it.
func (db *DB) DeleteContent(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("content %s: %w", id, ErrNotFound)
	}

	// Placements referencing removed content would otherwise render holes.
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM content_placements WHERE content_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete placements for content: %w", classify(err))
	}
	return nil
}
