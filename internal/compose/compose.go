// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package compose

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/cache"
	"github.com/marqueehq/marquee/internal/config"
	"github.com/marqueehq/marquee/internal/database"
	"github.com/marqueehq/marquee/internal/logging"
	"github.com/marqueehq/marquee/internal/metrics"
	"github.com/marqueehq/marquee/internal/models"
	"github.com/marqueehq/marquee/internal/rank"
	"github.com/marqueehq/marquee/internal/recommend"
	"github.com/marqueehq/marquee/internal/resolver"
)

// Catalog is the read surface the composer needs from the store.
// *database.DB satisfies it; tests substitute in-memory fakes.
type Catalog interface {
	GetPageByName(ctx context.Context, name string) (*models.Page, error)
	ListSectionsForPage(ctx context.Context, pageID uuid.UUID) ([]models.Section, error)
	ListPlacementsForSection(ctx context.Context, sectionID uuid.UUID) ([]models.ContentPlacement, error)
	ContentByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Content, error)
}

var _ Catalog = (*database.DB)(nil)

// Request describes one page render.
type Request struct {
	PageName  string
	ProfileID string

	// At is the evaluation instant for scheduling previews. Nil means
	// "now"; only nil-At renders are cached.
	At *time.Time

	// Limit caps items per section when positive, overriding section
	// configuration.
	Limit int
}

// Service composes pages by fanning out section resolution and joining
// the results in page order.
type Service struct {
	catalog Catalog
	scores  recommend.ScoreProvider
	cfg     *config.ComposeConfig
	cache   *cache.Cache
}

// New creates a composition service. scores may be nil when
// personalization is disabled entirely.
func New(catalog Catalog, scores recommend.ScoreProvider, cfg *config.ComposeConfig) *Service {
	return &Service{
		catalog: catalog,
		scores:  scores,
		cfg:     cfg,
		cache:   cache.New(cfg.CacheTTL),
	}
}

// Invalidate drops all cached renders. Called after every admin catalog
// mutation.
func (s *Service) Invalidate() {
	s.cache.Clear()
}

// CacheStats exposes cache counters for the health/stats surface.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

type cacheParams struct {
	Page    string
	Profile string
	Limit   int
}

// ComposePage renders a page at a single evaluation instant.
//
// Sections resolve concurrently, each under its own timeout; a failed or
// timed-out section is reported inline via SectionView.Error and never
// fails the page. Only a missing page or an unreachable store fails the
// whole render. The returned bool reports whether the render came from
// cache.
func (s *Service) ComposePage(ctx context.Context, req Request) (*models.PageView, bool, error) {
	start := time.Now()

	// Explicit-instant previews bypass the cache: arbitrary instants
	// would pollute it and previews must always reflect current data.
	cacheable := req.At == nil
	key := cache.GenerateKey("compose", cacheParams{Page: req.PageName, Profile: req.ProfileID, Limit: req.Limit})
	if cacheable {
		if cached, ok := s.cache.Get(key); ok {
			if view, ok := cached.(*models.PageView); ok {
				return view, true, nil
			}
		}
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	page, err := s.catalog.GetPageByName(ctx, req.PageName)
	if err != nil {
		return nil, false, err
	}

	sections, err := s.catalog.ListSectionsForPage(ctx, page.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load sections: %w", err)
	}

	views := make([]models.SectionView, len(sections))
	var wg sync.WaitGroup
	for i, section := range sections {
		wg.Add(1)
		go func(slot int, section models.Section) {
			defer wg.Done()
			views[slot] = s.resolveSection(ctx, section, at, req)
		}(i, section)
	}
	wg.Wait()

	view := &models.PageView{
		Name:        page.Name,
		Title:       page.Title,
		Description: page.Description,
		EvaluatedAt: at,
		ProfileID:   req.ProfileID,
		Sections:    views,
	}

	// A render with failed sections must not be replayed for the full
	// TTL: the failure may be transient and retries should hit the store.
	if cacheable && view.FailedSections() == 0 {
		s.cache.Set(key, view)
	}
	metrics.RecordPageComposition(page.Name, time.Since(start))
	return view, false, nil
}

// resolveSection resolves one section under its own timeout and converts
// any failure into an inline error marker.
func (s *Service) resolveSection(ctx context.Context, section models.Section, at time.Time, req Request) models.SectionView {
	sectionCtx, cancel := context.WithTimeout(ctx, s.cfg.SectionTimeout)
	defer cancel()

	view := models.SectionView{
		ID:           section.ID,
		Name:         section.Name,
		Title:        section.Title,
		Position:     section.Position,
		LayoutType:   section.LayoutType,
		Personalized: section.Personalized,
		Items:        []models.RenderedItem{},
	}

	items, err := s.resolveItems(sectionCtx, section, at, req.Limit)
	if err != nil {
		code := "STORE_UNAVAILABLE"
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			code = "SECTION_TIMEOUT"
			outcome = "timeout"
		}
		logger := logging.Ctx(ctx)
		logger.Warn().
			Err(err).
			Str("section", section.Name).
			Msg("Section resolution failed")
		metrics.RecordSectionOutcome(outcome)
		view.Error = &models.SectionError{Code: code, Message: "section could not be resolved"}
		return view
	}

	if section.Personalized && req.ProfileID != "" && s.scores != nil {
		items = s.personalize(sectionCtx, items, req.ProfileID)
	}

	metrics.RecordSectionOutcome("ok")
	view.Items = items
	return view
}

// resolveItems loads a section's placements and content and resolves them
// at the evaluation instant.
func (s *Service) resolveItems(ctx context.Context, section models.Section, at time.Time, requestLimit int) ([]models.RenderedItem, error) {
	placements, err := s.catalog.ListPlacementsForSection(ctx, section.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(placements))
	for _, p := range placements {
		ids = append(ids, p.ContentID)
	}
	content, err := s.catalog.ContentByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return resolver.ResolveSection(placements, content, at, resolver.Limits{
		Request: requestLimit,
		Section: section.ItemLimit,
		Default: s.cfg.DefaultItemLimit,
	}), nil
}

// personalize re-ranks items with profile scores. Provider failures leave
// the editorial order untouched; scores are advisory and never fail a
// section that already resolved.
func (s *Service) personalize(ctx context.Context, items []models.RenderedItem, profileID string) []models.RenderedItem {
	if len(items) == 0 {
		return items
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ContentID
	}

	scores, err := s.scores.ScoresFor(ctx, profileID, ids)
	if err != nil {
		logger := logging.Ctx(ctx)
		logger.Warn().
			Err(err).
			Str("profile_id", profileID).
			Msg("Score provider failed, keeping editorial order")
		metrics.RecordPersonalization("error")
		return items
	}
	if len(scores) == 0 {
		metrics.RecordPersonalization("no_scores")
		return items
	}

	metrics.RecordPersonalization("ranked")
	return rank.ApplyScores(items, scores)
}

// SectionItems resolves a single section outside of page composition, for
// the standalone section endpoint. Unlike page renders this is never
// cached or personalized.
func (s *Service) SectionItems(ctx context.Context, section models.Section, at time.Time, limit int) ([]models.RenderedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SectionTimeout)
	defer cancel()

	return s.resolveItems(ctx, section, at, limit)
}
