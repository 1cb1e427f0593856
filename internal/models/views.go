// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package models

import (
	"time"

	"github.com/google/uuid"
)

// RenderedItem is a single content tile inside a rendered section.
//
// Score is populated only when a personalization pass re-ranked the
// section; unscored items carry a nil Score even on personalized pages.
type RenderedItem struct {
	ContentID uuid.UUID `json:"content_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	PosterURL *string   `json:"poster_url,omitempty"`
	Priority  int       `json:"priority"`
	Score     *float64  `json:"score,omitempty"`
}

// SectionError marks a section that failed to resolve during page
// composition. The page render still succeeds; clients decide whether to
// hide the section or show a retry affordance.
type SectionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SectionView is one rendered section of a page. Exactly one of Items or
// Error is meaningful: a failed section carries Error and an empty Items
// slice, a successful section carries Items (possibly empty) and no Error.
type SectionView struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Title        string         `json:"title"`
	Position     int            `json:"position"`
	LayoutType   string         `json:"layout_type"`
	Personalized bool           `json:"personalized"`
	Items        []RenderedItem `json:"items"`
	Error        *SectionError  `json:"error,omitempty"`
}

// PageView is a fully composed page: the page's sections in display order,
// each resolved (or failed) independently at a single evaluation instant.
//
// EvaluatedAt records the instant placements were evaluated against; for
// wall-clock renders it is the server time, for previews it echoes the
// requested instant. ProfileID is set when a profile was supplied and at
// least considered for personalization, even if no section was re-ranked.
type PageView struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
	ProfileID   string        `json:"profile_id,omitempty"`
	Sections    []SectionView `json:"sections"`
}

// FailedSections counts sections that resolved with an error.
func (p *PageView) FailedSections() int {
	n := 0
	for i := range p.Sections {
		if p.Sections[i].Error != nil {
			n++
		}
	}
	return n
}
