// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package models

import (
	"time"

	"github.com/google/uuid"
)

// Content categories accepted by the catalog.
const (
	ContentCategoryMovie      = "movie"
	ContentCategorySeries     = "series"
	ContentCategoryEpisode    = "episode"
	ContentCategoryCollection = "collection"
)

// Content lifecycle statuses. Only published content ever appears in a
// rendered section, regardless of any placements pointing at it.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusArchived  = "archived"
)

// Content represents a single catalog entry that can be placed into sections.
//
// Content carries only the presentation attributes needed to render a page
// tile. Playback assets, stream manifests, and entitlement checks live in
// other systems; a page response references content by ID and the client
// resolves the rest.
//
// Key fields:
//   - ID: Unique UUID assigned at creation
//   - Category: "movie", "series", "episode", or "collection"
//   - Status: lifecycle state; draft and archived content is invisible to
//     the resolver even when actively placed
type Content struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Synopsis    *string    `json:"synopsis,omitempty"`
	PosterURL   *string    `json:"poster_url,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	IsPremium   bool       `json:"is_premium"`
	IsFeatured  bool       `json:"is_featured"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished reports whether the entry is eligible for rendering.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// Page is a named, ordered collection of sections (e.g. "home", "movies").
// Pages are addressed by Name in the public API; Name is unique and
// URL-safe.
type Page struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Section layout hints for clients. The engine treats layout as opaque
// presentation metadata; only the enum membership is validated.
const (
	SectionLayoutRail = "rail"
	SectionLayoutGrid = "grid"
	SectionLayoutHero = "hero"
)

// Section is an ordered row within a page ("Trending Now", "New Releases").
//
// Fields:
//   - Position: Sort order within the page (ascending, 0-based)
//   - LayoutType: Client rendering hint (rail, grid, hero)
//   - ItemLimit: Maximum items rendered for this section; 0 means no
//     section-level cap
//   - Personalized: Whether profile-aware re-ranking applies when a
//     profile is present on the page request
type Section struct {
	ID           uuid.UUID `json:"id"`
	PageID       uuid.UUID `json:"page_id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Position     int       `json:"position"`
	LayoutType   string    `json:"layout_type"`
	ItemLimit    int       `json:"item_limit"`
	Personalized bool      `json:"personalized"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultPlacementPriority applies when a placement is created without an
// explicit priority. Lower values render first.
const DefaultPlacementPriority = 100

// PlacementState describes where a placement sits in its scheduling window
// relative to an evaluation instant. It is always derived, never stored.
type PlacementState string

const (
	// PlacementScheduled means the start date is in the future.
	PlacementScheduled PlacementState = "scheduled"

	// PlacementActive means the evaluation instant falls inside the
	// placement window (boundaries inclusive).
	PlacementActive PlacementState = "active"

	// PlacementExpired means the end date has passed. Expired placements
	// are retained for audit and reporting; they simply stop rendering.
	PlacementExpired PlacementState = "expired"
)

// ContentPlacement pins a piece of content into a section with a priority
// and an optional scheduling window.
//
// Scheduling semantics:
//   - StartDate nil: active immediately
//   - EndDate nil: never expires
//   - Both boundaries are inclusive
//
// A (ContentID, SectionID) pair is unique: the same content cannot be
// placed twice in one section. Priority orders items within a section
// (lower renders first); ties break on CreatedAt, then ContentID.
type ContentPlacement struct {
	ID        uuid.UUID  `json:"id"`
	ContentID uuid.UUID  `json:"content_id"`
	SectionID uuid.UUID  `json:"section_id"`
	Priority  int        `json:"priority"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActiveAt reports whether the placement window contains the given
// instant. Nil boundaries are open-ended; defined boundaries are inclusive.
func (p *ContentPlacement) IsActiveAt(now time.Time) bool {
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

// StateAt derives the placement's scheduling state at the given instant.
func (p *ContentPlacement) StateAt(now time.Time) PlacementState {
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return PlacementScheduled
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return PlacementExpired
	}
	return PlacementActive
}

// Recommendation is a per-profile affinity score for a piece of content,
// produced by an upstream scoring pipeline and consumed by personalized
// sections. Scores are relative; only their ordering matters.
type Recommendation struct {
	ProfileID string    `json:"profile_id"`
	ContentID uuid.UUID `json:"content_id"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
