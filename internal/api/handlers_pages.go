// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marqueehq/marquee/internal/compose"
	"github.com/marqueehq/marquee/internal/models"
)

// ComposePage renders a page for a viewer.
//
// GET /api/v1/pages/{name}?profile_id=&at=&limit=
//
// profile_id enables personalization of sections flagged for it; at
// evaluates placement windows against an explicit instant (preview mode,
// bypasses the cache); limit caps items per section, clamped to the
// configured maximum. Section failures surface inside the page body, never
// as a page-level error.
func (h *Handler) ComposePage(w http.ResponseWriter, r *http.Request) {
	at, ok := queryInstant(w, r)
	if !ok {
		return
	}
	limit, ok := h.queryLimit(w, r)
	if !ok {
		return
	}

	req := compose.Request{
		PageName:  chi.URLParam(r, "name"),
		ProfileID: r.URL.Query().Get("profile_id"),
		At:        at,
		Limit:     limit,
	}

	start := time.Now()
	view, cached, err := h.compose.ComposePage(r.Context(), req)
	if err != nil {
		respondStoreError(w, err, "page")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   view,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// SectionItems resolves a single section's items, mostly useful for
// editorial preview tooling.
//
// GET /api/v1/sections/{id}/items?at=&limit=
func (h *Handler) SectionItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	at, ok := queryInstant(w, r)
	if !ok {
		return
	}
	limit, ok := h.queryLimit(w, r)
	if !ok {
		return
	}

	section, err := h.db.GetSection(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	instant := time.Now().UTC()
	if at != nil {
		instant = *at
	}

	items, err := h.compose.SectionItems(r.Context(), *section, instant, limit)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"section_id":   section.ID,
		"name":         section.Name,
		"evaluated_at": instant,
		"items":        items,
	})
}
