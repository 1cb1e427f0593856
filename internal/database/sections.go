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

const sectionColumns = `id, page_id, name, title, position, layout_type, item_limit, personalized, created_at, updated_at`

// InsertSection adds a section to a page. Returns ErrNotFound if the page
// does not exist and ErrConflict if the (page, name) pair is taken.
func (db *DB) InsertSection(ctx context.Context, section *models.Section) error {
	if _, err := db.GetPage(ctx, section.PageID); err != nil {
		return err
	}

	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	if section.LayoutType == "" {
		section.LayoutType = models.SectionLayoutRail
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	query := `INSERT INTO sections (id, page_id, name, title, position, layout_type, item_limit, personalized, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	res, err := db.conn.ExecContext(ctx, query,
		section.ID, section.PageID, section.Name, section.Title,
		section.Position, section.LayoutType, section.ItemLimit, section.Personalized,
		section.CreatedAt, section.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert section: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("section %q on page %s: %w", section.Name, section.PageID, ErrConflict)
	}
	return nil
}

// GetSection retrieves a section by ID.
func (db *DB) GetSection(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = ?`

	var s models.Section
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.PageID, &s.Name, &s.Title, &s.Position, &s.LayoutType,
		&s.ItemLimit, &s.Personalized, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query section: %w", classify(err))
	}
	return &s, nil
}

// ListSectionsForPage retrieves a page's sections in display order.
func (db *DB) ListSectionsForPage(ctx context.Context, pageID uuid.UUID) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE page_id = ? ORDER BY position, name`

	rows, err := db.conn.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", classify(err))
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.PageID, &s.Name, &s.Title, &s.Position, &s.LayoutType,
			&s.ItemLimit, &s.Personalized, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", classify(err))
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sections: %w", classify(err))
	}
	return sections, nil
}

// UpdateSection applies a partial update to a section.
func (db *DB) UpdateSection(ctx context.Context, id uuid.UUID, req *models.UpdateSectionRequest) (*models.Section, error) {
	current, err := db.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.LayoutType != nil {
		current.LayoutType = *req.LayoutType
	}
	if req.Position != nil {
		current.Position = *req.Position
	}
	if req.ItemLimit != nil {
		current.ItemLimit = *req.ItemLimit
	}
	if req.Personalized != nil {
		current.Personalized = *req.Personalized
	}
	current.UpdatedAt = time.Now().UTC()

	query := `UPDATE sections SET title = ?, position = ?, layout_type = ?, item_limit = ?, personalized = ?, updated_at = ? WHERE id = ?`
	if _, err := db.conn.ExecContext(ctx, query,
		current.Title, current.Position, current.LayoutType, current.ItemLimit,
		current.Personalized, current.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", classify(err))
	}
	return current, nil
}

// DeleteSection removes a section and its placements.
func (db *DB) DeleteSection(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("section %s: %w", id, ErrNotFound)
	}

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM content_placements WHERE section_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete placements for section: %w", classify(err))
	}
	return nil
}
