// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marqueehq/marquee/internal/models"
)

// CreateContent adds a catalog entry.
//
// POST /api/v1/catalog/content
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	content := &models.Content{
		Title:       req.Title,
		Category:    req.Category,
		Status:      req.Status,
		Synopsis:    req.Synopsis,
		PosterURL:   req.PosterURL,
		Tags:        req.Tags,
		ReleaseDate: req.ReleaseDate,
		IsPremium:   req.IsPremium,
		IsFeatured:  req.IsFeatured,
	}

	if err := h.db.InsertContent(r.Context(), content); err != nil {
		respondStoreError(w, err, "content")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusCreated, content)
}

// ListContent returns catalog entries, newest first.
//
// GET /api/v1/catalog/content?limit=&offset=
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 100)
	offset := getIntParam(r, "offset", 0)

	entries, err := h.db.ListContent(r.Context(), limit, offset)
	if err != nil {
		respondStoreError(w, err, "content")
		return
	}

	respondSuccess(w, http.StatusOK, entries)
}

// GetContent returns a single catalog entry.
//
// GET /api/v1/catalog/content/{id}
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	content, err := h.db.GetContent(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "content")
		return
	}

	respondSuccess(w, http.StatusOK, content)
}

// UpdateContent patches a catalog entry. Fields omitted from the body are
// left unchanged.
//
// PUT /api/v1/catalog/content/{id}
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req models.UpdateContentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	content, err := h.db.UpdateContent(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "content")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, content)
}

// DeleteContent removes a catalog entry along with its placements.
//
// DELETE /api/v1/catalog/content/{id}
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.db.DeleteContent(r.Context(), id); err != nil {
		respondStoreError(w, err, "content")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
