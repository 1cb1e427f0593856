// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin API request bodies. Validation tags are enforced by the
// validation package before any handler logic runs; pointer fields on
// update requests distinguish "not provided" from zero values.

// CreateContentRequest creates a catalog entry. Status defaults to draft
// when omitted, so new entries never leak into renders accidentally.
type CreateContentRequest struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Category    string     `json:"category" validate:"required,oneof=movie series episode collection"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published archived"`
	Synopsis    *string    `json:"synopsis,omitempty" validate:"omitempty,max=4000"`
	PosterURL   *string    `json:"poster_url,omitempty" validate:"omitempty,url"`
	Tags        []string   `json:"tags,omitempty" validate:"omitempty,dive,max=100"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	IsPremium   bool       `json:"is_premium"`
	IsFeatured  bool       `json:"is_featured"`
}

// UpdateContentRequest patches a catalog entry. Omitted fields are left
// unchanged.
type UpdateContentRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,oneof=movie series episode collection"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Synopsis    *string    `json:"synopsis,omitempty" validate:"omitempty,max=4000"`
	PosterURL   *string    `json:"poster_url,omitempty" validate:"omitempty,url"`
	Tags        []string   `json:"tags,omitempty" validate:"omitempty,dive,max=100"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	IsPremium   *bool      `json:"is_premium,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
}

// CreatePageRequest creates a page. Name is the public URL identifier and
// must be lowercase alphanumeric with hyphens ("home", "kids-movies").
type CreatePageRequest struct {
	Name        string  `json:"name" validate:"required,max=100,pagename"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdatePageRequest patches a page. Name is immutable once created; only
// display fields can change.
type UpdatePageRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// CreateSectionRequest adds a section to a page.
type CreateSectionRequest struct {
	PageID       uuid.UUID `json:"page_id" validate:"required"`
	Name         string    `json:"name" validate:"required,max=100,pagename"`
	Title        string    `json:"title" validate:"required,max=200"`
	Position     int       `json:"position" validate:"gte=0"`
	LayoutType   string    `json:"layout_type" validate:"omitempty,oneof=rail grid hero"`
	ItemLimit    int       `json:"item_limit" validate:"gte=0,lte=1000"`
	Personalized bool      `json:"personalized"`
}

// UpdateSectionRequest patches a section.
type UpdateSectionRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Position     *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	LayoutType   *string `json:"layout_type,omitempty" validate:"omitempty,oneof=rail grid hero"`
	ItemLimit    *int    `json:"item_limit,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Personalized *bool   `json:"personalized,omitempty"`
}

// CreatePlacementRequest pins content into a section.
//
// StartDate and EndDate are RFC3339 timestamps; either may be omitted for
// an open-ended window. When both are present, EndDate must not precede
// StartDate (checked beyond struct tags because it spans two fields).
type CreatePlacementRequest struct {
	ContentID uuid.UUID  `json:"content_id" validate:"required"`
	SectionID uuid.UUID  `json:"section_id" validate:"required"`
	Priority  *int       `json:"priority,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// EffectivePriority returns the requested priority, or the default when
// the field was omitted.
func (r *CreatePlacementRequest) EffectivePriority() int {
	if r.Priority == nil {
		return DefaultPlacementPriority
	}
	return *r.Priority
}

// ValidateWindow checks the cross-field scheduling invariant.
func (r *CreatePlacementRequest) ValidateWindow() bool {
	if r.StartDate == nil || r.EndDate == nil {
		return true
	}
	return !r.EndDate.Before(*r.StartDate)
}

// UpdatePlacementRequest patches a placement's priority or window.
// ClearStartDate/ClearEndDate explicitly open a boundary, since a nil
// pointer here means "unchanged".
type UpdatePlacementRequest struct {
	Priority       *int       `json:"priority,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	ClearStartDate bool       `json:"clear_start_date,omitempty"`
	ClearEndDate   bool       `json:"clear_end_date,omitempty"`
}

// RecommendationScore is one (content, score) pair in a bulk upsert.
type RecommendationScore struct {
	ContentID uuid.UUID `json:"content_id" validate:"required"`
	Score     float64   `json:"score" validate:"gte=0"`
}

// UpsertRecommendationsRequest replaces or inserts scores for a profile.
type UpsertRecommendationsRequest struct {
	ProfileID string                `json:"profile_id" validate:"required,max=200"`
	Scores    []RecommendationScore `json:"scores" validate:"required,min=1,max=10000,dive"`
}

// LoginRequest exchanges admin credentials for a JWT.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and its expiry.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
