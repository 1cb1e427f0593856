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

	"github.com/marqueehq/marquee/internal/metrics"
	"github.com/marqueehq/marquee/internal/models"
)

const placementColumns = `id, content_id, section_id, priority, start_date, end_date, created_at, updated_at`

// InsertPlacement pins content into a section.
//
// Returns ErrNotFound if the section or content does not exist. Returns
// ErrConflict if the content is already placed in the section; placements
// are unique per (content_id, section_id) and re-placing requires either
// an update or a delete-then-create.
func (db *DB) InsertPlacement(ctx context.Context, placement *models.ContentPlacement) error {
	if _, err := db.GetSection(ctx, placement.SectionID); err != nil {
		return err
	}
	if _, err := db.GetContent(ctx, placement.ContentID); err != nil {
		return err
	}

	if placement.ID == uuid.Nil {
		placement.ID = uuid.New()
	}
	now := time.Now().UTC()
	if placement.CreatedAt.IsZero() {
		placement.CreatedAt = now
	}
	placement.UpdatedAt = now

	query := `INSERT INTO content_placements (id, content_id, section_id, priority, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	res, err := db.conn.ExecContext(ctx, query,
		placement.ID, placement.ContentID, placement.SectionID,
		placement.Priority, placement.StartDate, placement.EndDate,
		placement.CreatedAt, placement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert placement: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("content %s already placed in section %s: %w",
			placement.ContentID, placement.SectionID, ErrConflict)
	}
	return nil
}

// GetPlacement retrieves a placement by ID.
func (db *DB) GetPlacement(ctx context.Context, id uuid.UUID) (*models.ContentPlacement, error) {
	query := `SELECT ` + placementColumns + ` FROM content_placements WHERE id = ?`

	var p models.ContentPlacement
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ContentID, &p.SectionID, &p.Priority,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("placement %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query placement: %w", classify(err))
	}
	return &p, nil
}

// ListPlacementsForSection retrieves every placement in a section,
// regardless of scheduling state. Window filtering and ordering happen in
// the resolver so that an explicit evaluation instant can be applied
// uniformly.
func (db *DB) ListPlacementsForSection(ctx context.Context, sectionID uuid.UUID) ([]models.ContentPlacement, error) {
	query := `SELECT ` + placementColumns + ` FROM content_placements WHERE section_id = ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, sectionID)
	metrics.RecordDBQuery("select", "content_placements", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query placements: %w", classify(err))
	}
	defer rows.Close()

	var placements []models.ContentPlacement
	for rows.Next() {
		var p models.ContentPlacement
		if err := rows.Scan(&p.ID, &p.ContentID, &p.SectionID, &p.Priority,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", classify(err))
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating placements: %w", classify(err))
	}
	return placements, nil
}

// UpdatePlacement applies a partial update to a placement's priority or
// scheduling window.
func (db *DB) UpdatePlacement(ctx context.Context, id uuid.UUID, req *models.UpdatePlacementRequest) (*models.ContentPlacement, error) {
	current, err := db.GetPlacement(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Priority != nil {
		current.Priority = *req.Priority
	}
	if req.StartDate != nil {
		current.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		current.EndDate = req.EndDate
	}
	if req.ClearStartDate {
		current.StartDate = nil
	}
	if req.ClearEndDate {
		current.EndDate = nil
	}
	if current.StartDate != nil && current.EndDate != nil && current.EndDate.Before(*current.StartDate) {
		return nil, fmt.Errorf("placement window ends before it starts: %w", ErrConflict)
	}
	current.UpdatedAt = time.Now().UTC()

	query := `UPDATE content_placements SET priority = ?, start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	if _, err := db.conn.ExecContext(ctx, query,
		current.Priority, current.StartDate, current.EndDate, current.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("failed to update placement: %w", classify(err))
	}
	return current, nil
}

// DeletePlacement removes a placement.
func (db *DB) DeletePlacement(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM content_placements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete placement: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", classify(err))
	}
	if affected == 0 {
		return fmt.Errorf("placement %s: %w", id, ErrNotFound)
	}
	return nil
}
