// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// handlers_catalog.go - Admin CRUD for pages and sections.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marqueehq/marquee/internal/models"
)

// CreatePage creates a page.
//
// POST /api/v1/catalog/pages
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page := &models.Page{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
	}

	if err := h.db.InsertPage(r.Context(), page); err != nil {
		respondStoreError(w, err, "page")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusCreated, page)
}

// ListPages returns all pages.
//
// GET /api/v1/catalog/pages
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.db.ListPages(r.Context())
	if err != nil {
		respondStoreError(w, err, "page")
		return
	}

	respondSuccess(w, http.StatusOK, pages)
}

// GetPage returns a page with its sections.
//
// GET /api/v1/catalog/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	page, err := h.db.GetPage(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "page")
		return
	}

	sections, err := h.db.ListSectionsForPage(r.Context(), page.ID)
	if err != nil {
		respondStoreError(w, err, "page")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"page":     page,
		"sections": sections,
	})
}

// UpdatePage patches a page's display fields. The name is immutable
// because it is the public URL identifier.
//
// PUT /api/v1/catalog/pages/{id}
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req models.UpdatePageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.db.UpdatePage(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "page")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, page)
}

// DeletePage removes a page, cascading to its sections and their
// placements.
//
// DELETE /api/v1/catalog/pages/{id}
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.db.DeletePage(r.Context(), id); err != nil {
		respondStoreError(w, err, "page")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// CreateSection adds a section to a page.
//
// POST /api/v1/catalog/sections
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	section := &models.Section{
		PageID:       req.PageID,
		Name:         req.Name,
		Title:        req.Title,
		Position:     req.Position,
		LayoutType:   req.LayoutType,
		ItemLimit:    req.ItemLimit,
		Personalized: req.Personalized,
	}

	if err := h.db.InsertSection(r.Context(), section); err != nil {
		respondStoreError(w, err, "section")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusCreated, section)
}

// ListSections returns a page's sections in display order.
//
// GET /api/v1/catalog/sections?page_id={id}
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	pageID, ok := queryUUID(w, r, "page_id")
	if !ok {
		return
	}

	if _, err := h.db.GetPage(r.Context(), pageID); err != nil {
		respondStoreError(w, err, "page")
		return
	}

	sections, err := h.db.ListSectionsForPage(r.Context(), pageID)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	respondSuccess(w, http.StatusOK, sections)
}

// GetSection returns a section with its placements.
//
// GET /api/v1/catalog/sections/{id}
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	section, err := h.db.GetSection(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	placements, err := h.db.ListPlacementsForSection(r.Context(), section.ID)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"section":    section,
		"placements": placements,
	})
}

// UpdateSection patches a section.
//
// PUT /api/v1/catalog/sections/{id}
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req models.UpdateSectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	section, err := h.db.UpdateSection(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "section")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, section)
}

// DeleteSection removes a section and its placements.
//
// DELETE /api/v1/catalog/sections/{id}
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.db.DeleteSection(r.Context(), id); err != nil {
		respondStoreError(w, err, "section")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
