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
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/models"
)

// InsertPage creates a page. Returns ErrConflict if the name is taken.
func (db *DB) InsertPage(ctx context.Context, page *models.Page) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	now := time.Now().UTC()
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}
	page.UpdatedAt = now

	// ON CONFLICT DO NOTHING plus a RowsAffected check maps unique
	// violations to ErrConflict without parsing driver error strings.
	query := `INSERT INTO pages (id, name, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	res, err := db.conn.ExecContext(ctx, query,
		page.ID, page.Name, page.Title, page.Description, page.CreatedAt, page.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("page name %q: %w", page.Name, ErrConflict)
	}
	return nil
}

// GetPage retrieves a page by ID.
func (db *DB) GetPage(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	return db.getPage(ctx, `SELECT id, name, title, description, created_at, updated_at FROM pages WHERE id = ?`, id)
}

// GetPageByName retrieves a page by its public name.
func (db *DB) GetPageByName(ctx context.Context, name string) (*models.Page, error) {
	return db.getPage(ctx, `SELECT id, name, title, description, created_at, updated_at FROM pages WHERE name = ?`, name)
}

func (db *DB) getPage(ctx context.Context, query string, arg interface{}) (*models.Page, error) {
	var p models.Page
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", classify(err))
	}
	return &p, nil
}

// ListPages retrieves all pages ordered by name.
func (db *DB) ListPages(ctx context.Context) ([]models.Page, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, title, description, created_at, updated_at FROM pages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", classify(err))
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Name, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", classify(err))
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", classify(err))
	}
	return pages, nil
}

// UpdatePage applies a partial update to a page's display fields.
func (db *DB) UpdatePage(ctx context.Context, id uuid.UUID, req *models.UpdatePageRequest) (*models.Page, error) {
	current, err := db.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	current.UpdatedAt = time.Now().UTC()

	query := `UPDATE pages SET title = ?, description = ?, updated_at = ? WHERE id = ?`
	if _, err := db.conn.ExecContext(ctx, query,
		current.Title, current.Description, current.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", classify(err))
	}
	return current, nil
}

// DeletePage removes a page along with its sections and their placements.
func (db *DB) DeletePage(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("page %s: %w", id, ErrNotFound)
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM content_placements WHERE section_id IN (SELECT id FROM sections WHERE page_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete placements for page: %w", classify(err))
	}
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sections WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sections for page: %w", classify(err))
	}
	return nil
}
