// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// Package resolver turns a section's placements into an ordered item list
// at a single evaluation instant.
//
// Resolution is a pure function over in-memory inputs: no clock reads, no
// store access. The same placements resolved at the same instant always
// yield the same items in the same order, which is what makes scheduling
// previews trustworthy.
package resolver

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/models"
)

// Limits carries the three limit sources in precedence order: an explicit
// request limit beats the section's configured cap, which beats the
// service default. Zero at every level means unbounded.
type Limits struct {
	Request int
	Section int
	Default int
}

// Effective returns the limit that applies, or 0 for unbounded.
func (l Limits) Effective() int {
	if l.Request > 0 {
		return l.Request
	}
	if l.Section > 0 {
		return l.Section
	}
	return l.Default
}

// ResolveSection filters a section's placements down to the items that
// render at the given instant.
//
// A placement renders when its window contains the instant AND its content
// exists in the provided map. Callers supply only published content, so a
// missing entry covers both unpublished and deleted targets; either way
// the placement is silently skipped rather than rendering a hole.
//
// Ordering is priority ascending, then placement creation time, then
// content ID, so two placements can never render in an unstable order.
func ResolveSection(placements []models.ContentPlacement, content map[uuid.UUID]models.Content, at time.Time, limits Limits) []models.RenderedItem {
	active := make([]models.ContentPlacement, 0, len(placements))
	for _, p := range placements {
		if !p.IsActiveAt(at) {
			continue
		}
		if _, ok := content[p.ContentID]; !ok {
			continue
		}
		active = append(active, p)
	}

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ContentID[:], b.ContentID[:]) < 0
	})

	if limit := limits.Effective(); limit > 0 && len(active) > limit {
		active = active[:limit]
	}

	items := make([]models.RenderedItem, 0, len(active))
	for _, p := range active {
		c := content[p.ContentID]
		items = append(items, models.RenderedItem{
			ContentID: c.ID,
			Title:     c.Title,
			Category:  c.Category,
			PosterURL: c.PosterURL,
			Priority:  p.Priority,
		})
	}
	return items
}
