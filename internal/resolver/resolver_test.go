// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package resolver

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/models"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

// buildCatalog returns n published content entries and a placement for
// each, priorities matching the insertion index.
func buildCatalog(n int) ([]models.ContentPlacement, map[uuid.UUID]models.Content) {
	placements := make([]models.ContentPlacement, 0, n)
	content := make(map[uuid.UUID]models.Content, n)
	for i := 0; i < n; i++ {
		c := models.Content{
			ID:       uuid.New(),
			Title:    string(rune('A' + i)),
			Category: models.ContentCategoryMovie,
			Status:   models.ContentStatusPublished,
		}
		content[c.ID] = c
		placements = append(placements, models.ContentPlacement{
			ID:        uuid.New(),
			ContentID: c.ID,
			Priority:  i,
			CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
		})
	}
	return placements, content
}

func TestResolveSectionOrdersByPriority(t *testing.T) {
	placements, content := buildCatalog(3)
	// Shuffle priorities so input order differs from render order.
	placements[0].Priority = 2
	placements[1].Priority = 0
	placements[2].Priority = 1

	items := ResolveSection(placements, content, testNow, Limits{})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Priority != i {
			t.Errorf("slot %d: expected priority %d, got %d", i, i, item.Priority)
		}
	}
}

func TestResolveSectionPriorityTieBreaksOnCreatedAt(t *testing.T) {
	placements, content := buildCatalog(3)
	for i := range placements {
		placements[i].Priority = 5
	}
	placements[0].CreatedAt = testNow.Add(-time.Hour)
	placements[1].CreatedAt = testNow.Add(-2 * time.Hour)
	placements[2].CreatedAt = testNow.Add(-3 * time.Hour)

	items := ResolveSection(placements, content, testNow, Limits{})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []uuid.UUID{placements[2].ContentID, placements[1].ContentID, placements[0].ContentID}
	for i, id := range want {
		if items[i].ContentID != id {
			t.Errorf("slot %d: expected %s, got %s", i, id, items[i].ContentID)
		}
	}
}

func TestResolveSectionFullTieBreaksOnContentID(t *testing.T) {
	placements, content := buildCatalog(4)
	created := testNow.Add(-time.Hour)
	for i := range placements {
		placements[i].Priority = 1
		placements[i].CreatedAt = created
	}

	first := ResolveSection(placements, content, testNow, Limits{})

	// Reverse input order; output must not change.
	reversed := make([]models.ContentPlacement, len(placements))
	for i, p := range placements {
		reversed[len(placements)-1-i] = p
	}
	second := ResolveSection(reversed, content, testNow, Limits{})

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ContentID != second[i].ContentID {
			t.Errorf("slot %d unstable: %s vs %s", i, first[i].ContentID, second[i].ContentID)
		}
	}
}

func TestResolveSectionFiltersInactiveWindows(t *testing.T) {
	placements, content := buildCatalog(4)
	placements[0].StartDate = timePtr(testNow.Add(time.Hour))      // scheduled
	placements[1].EndDate = timePtr(testNow.Add(-time.Hour))       // expired
	placements[2].StartDate = timePtr(testNow.Add(-time.Hour))     // active, bounded
	placements[2].EndDate = timePtr(testNow.Add(time.Hour))        //
	placements[3].StartDate, placements[3].EndDate = nil, nil      // open

	items := ResolveSection(placements, content, testNow, Limits{})
	if len(items) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(items))
	}
}

func TestResolveSectionBoundariesInclusive(t *testing.T) {
	placements, content := buildCatalog(2)
	placements[0].StartDate = timePtr(testNow)
	placements[1].EndDate = timePtr(testNow)

	items := ResolveSection(placements, content, testNow, Limits{})
	if len(items) != 2 {
		t.Errorf("boundary instants must render, got %d items", len(items))
	}
}

func TestResolveSectionSkipsMissingContent(t *testing.T) {
	placements, content := buildCatalog(3)
	// Simulate unpublished/deleted content absent from the batch.
	delete(content, placements[1].ContentID)

	items := ResolveSection(placements, content, testNow, Limits{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ContentID == placements[1].ContentID {
			t.Error("missing content rendered anyway")
		}
	}
}

func TestResolveSectionDifferentInstants(t *testing.T) {
	placements, content := buildCatalog(1)
	start := testNow.Add(time.Hour)
	placements[0].StartDate = &start

	if items := ResolveSection(placements, content, testNow, Limits{}); len(items) != 0 {
		t.Errorf("before window: expected 0 items, got %d", len(items))
	}
	if items := ResolveSection(placements, content, testNow.Add(2*time.Hour), Limits{}); len(items) != 1 {
		t.Errorf("inside window: expected 1 item, got %d", len(items))
	}
}

func TestLimitsEffective(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		want   int
	}{
		{"all zero is unbounded", Limits{}, 0},
		{"request wins", Limits{Request: 3, Section: 10, Default: 20}, 3},
		{"section beats default", Limits{Section: 10, Default: 20}, 10},
		{"default applies last", Limits{Default: 20}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.limits.Effective(); got != tt.want {
				t.Errorf("Effective() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveSectionAppliesLimitAfterOrdering(t *testing.T) {
	placements, content := buildCatalog(5)
	// Highest priority value placed first in the slice; the limit must cut
	// the tail of the ordered list, not the input.
	placements[0].Priority = 99

	items := ResolveSection(placements, content, testNow, Limits{Request: 2})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Priority != 1 || items[1].Priority != 2 {
		t.Errorf("limit cut the wrong end: priorities %d, %d", items[0].Priority, items[1].Priority)
	}
}

func TestResolveSectionEmptyInput(t *testing.T) {
	items := ResolveSection(nil, map[uuid.UUID]models.Content{}, testNow, Limits{})
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d items", len(items))
	}
	if items == nil {
		t.Error("expected non-nil empty slice for JSON rendering")
	}
}
