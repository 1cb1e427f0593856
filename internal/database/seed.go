// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marqueehq/marquee/internal/logging"
	"github.com/marqueehq/marquee/internal/models"
)

// SeedMockCatalog seeds the database with a small demo catalog: a home
// page with a few sections and scheduled placements. Intended for local
// development and demo environments only. Idempotent: a catalog that
// already has a "home" page is left untouched.
func (db *DB) SeedMockCatalog(ctx context.Context) error {
	if _, err := db.GetPageByName(ctx, "home"); err == nil {
		logging.Debug().Msg("Mock catalog already seeded, skipping")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	logging.Info().Msg("Seeding database with mock catalog...")

	now := time.Now().UTC()
	strPtr := func(s string) *string { return &s }
	timePtr := func(t time.Time) *time.Time { return &t }

	titles := []struct {
		title    string
		category string
		tags     []string
		premium  bool
	}{
		{"Midnight Harbor", models.ContentCategoryMovie, []string{"thriller", "noir"}, false},
		{"The Last Lighthouse", models.ContentCategoryMovie, []string{"drama"}, false},
		{"Orbital Decay", models.ContentCategorySeries, []string{"sci-fi"}, true},
		{"Cedar Falls", models.ContentCategorySeries, []string{"drama", "small-town"}, false},
		{"Paper Planes", models.ContentCategoryMovie, []string{"family", "animation"}, false},
		{"Static", models.ContentCategoryMovie, []string{"horror"}, true},
		{"The Commissary", models.ContentCategorySeries, []string{"comedy", "workplace"}, false},
		{"Glasswing", models.ContentCategoryMovie, []string{"documentary", "nature"}, false},
		{"Second Acts", models.ContentCategoryCollection, []string{"curated"}, false},
		{"Northbound", models.ContentCategorySeries, []string{"crime"}, true},
	}

	var contents []models.Content
	for i, t := range titles {
		c := models.Content{
			Title:       t.title,
			Category:    t.category,
			Status:      models.ContentStatusPublished,
			Tags:        t.tags,
			Synopsis:    strPtr(fmt.Sprintf("A demo catalog entry for %s.", t.title)),
			ReleaseDate: timePtr(now.AddDate(0, -i, 0)),
			IsPremium:   t.premium,
			IsFeatured:  i < 3,
		}
		if err := db.InsertContent(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed content %q: %w", t.title, err)
		}
		contents = append(contents, c)
	}

	// One draft title: placements pointing at it must never render.
	draft := models.Content{Title: "Untitled Pilot", Category: models.ContentCategoryEpisode, Status: models.ContentStatusDraft}
	if err := db.InsertContent(ctx, &draft); err != nil {
		return fmt.Errorf("failed to seed draft content: %w", err)
	}

	home := models.Page{Name: "home", Title: "Home", Description: strPtr("Demo landing page")}
	if err := db.InsertPage(ctx, &home); err != nil {
		return fmt.Errorf("failed to seed home page: %w", err)
	}

	sections := []models.Section{
		{PageID: home.ID, Name: "featured", Title: "Featured", Position: 0, LayoutType: models.SectionLayoutHero, ItemLimit: 5},
		{PageID: home.ID, Name: "trending", Title: "Trending Now", Position: 1, Personalized: true},
		{PageID: home.ID, Name: "coming-soon", Title: "Coming Soon", Position: 2, LayoutType: models.SectionLayoutGrid},
	}
	for i := range sections {
		if err := db.InsertSection(ctx, &sections[i]); err != nil {
			return fmt.Errorf("failed to seed section %q: %w", sections[i].Name, err)
		}
	}

	place := func(content models.Content, section models.Section, priority int, start, end *time.Time) error {
		p := models.ContentPlacement{
			ContentID: content.ID,
			SectionID: section.ID,
			Priority:  priority,
			StartDate: start,
			EndDate:   end,
		}
		return db.InsertPlacement(ctx, &p)
	}

	for i, c := range contents[:5] {
		if err := place(c, sections[0], i, nil, nil); err != nil {
			return fmt.Errorf("failed to seed featured placement: %w", err)
		}
	}
	for i, c := range contents[3:9] {
		if err := place(c, sections[1], i, nil, nil); err != nil {
			return fmt.Errorf("failed to seed trending placement: %w", err)
		}
	}
	// Coming-soon placements open in the future, so the section renders
	// empty until the window starts.
	for i, c := range contents[8:] {
		if err := place(c, sections[2], i, timePtr(now.Add(7*24*time.Hour)), nil); err != nil {
			return fmt.Errorf("failed to seed coming-soon placement: %w", err)
		}
	}
	if err := place(draft, sections[0], 99, nil, nil); err != nil {
		return fmt.Errorf("failed to seed draft placement: %w", err)
	}

	// Demo profile scores for the trending section.
	scores := make([]models.RecommendationScore, 0, 6)
	for i, c := range contents[3:9] {
		scores = append(scores, models.RecommendationScore{
			ContentID: c.ID,
			Score:     1.0 - float64(i)*0.1,
		})
	}
	if err := db.UpsertRecommendations(ctx, "demo-profile", scores); err != nil {
		return fmt.Errorf("failed to seed recommendations: %w", err)
	}

	logging.Info().
		Int("content", len(contents)+1).
		Int("sections", len(sections)).
		Msg("Mock catalog seeded")
	return nil
}
