// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// Package rank applies per-profile recommendation scores to a resolved
// section.
//
// Personalization never adds or removes items: the resolver alone decides
// what renders. Ranking only permutes scored items among the slots they
// already occupy, so editorial decisions (what is in the section, how many
// items, where unscored items sit) survive personalization intact.
package rank

import (
	"sort"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/models"
)

// ApplyScores re-ranks a section's items using profile scores.
//
// Scored items are sorted by score descending and reinserted into the
// positions that scored items originally occupied; equal scores keep
// their editorial order. Unscored items keep their exact positions and a
// nil Score. The input slice is not modified.
func ApplyScores(items []models.RenderedItem, scores map[uuid.UUID]float64) []models.RenderedItem {
	if len(items) == 0 || len(scores) == 0 {
		return items
	}

	slots := make([]int, 0, len(items))
	scored := make([]models.RenderedItem, 0, len(items))
	for i, item := range items {
		score, ok := scores[item.ContentID]
		if !ok {
			continue
		}
		s := score
		item.Score = &s
		slots = append(slots, i)
		scored = append(scored, item)
	}
	if len(scored) == 0 {
		return items
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})

	result := make([]models.RenderedItem, len(items))
	copy(result, items)
	for i, slot := range slots {
		result[slot] = scored[i]
	}
	return result
}
