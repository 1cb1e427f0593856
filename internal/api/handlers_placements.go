// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marqueehq/marquee/internal/models"
)

// CreatePlacement pins content into a section with a priority and an
// optional scheduling window.
//
// POST /api/v1/catalog/placements
func (h *Handler) CreatePlacement(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlacementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !req.ValidateWindow() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not precede start_date", nil)
		return
	}

	placement := &models.ContentPlacement{
		ContentID: req.ContentID,
		SectionID: req.SectionID,
		Priority:  req.EffectivePriority(),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := h.db.InsertPlacement(r.Context(), placement); err != nil {
		respondStoreError(w, err, "placement")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusCreated, placementView(placement))
}

// ListPlacements returns a section's placements, each with its derived
// scheduling state at the current instant.
//
// GET /api/v1/catalog/placements?section_id={id}
func (h *Handler) ListPlacements(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := queryUUID(w, r, "section_id")
	if !ok {
		return
	}

	if _, err := h.db.GetSection(r.Context(), sectionID); err != nil {
		respondStoreError(w, err, "section")
		return
	}

	placements, err := h.db.ListPlacementsForSection(r.Context(), sectionID)
	if err != nil {
		respondStoreError(w, err, "placement")
		return
	}

	views := make([]map[string]interface{}, len(placements))
	for i := range placements {
		views[i] = placementView(&placements[i])
	}
	respondSuccess(w, http.StatusOK, views)
}

// GetPlacement returns a placement together with its derived scheduling
// state at the current instant.
//
// GET /api/v1/catalog/placements/{id}
func (h *Handler) GetPlacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	placement, err := h.db.GetPlacement(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "placement")
		return
	}

	respondSuccess(w, http.StatusOK, placementView(placement))
}

// UpdatePlacement patches a placement's priority or scheduling window.
//
// PUT /api/v1/catalog/placements/{id}
func (h *Handler) UpdatePlacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req models.UpdatePlacementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	placement, err := h.db.UpdatePlacement(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "placement")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, placementView(placement))
}

// DeletePlacement removes a placement immediately. Expired placements do
// not need deleting to disappear from renders; this is for editorial
// cleanup.
//
// DELETE /api/v1/catalog/placements/{id}
func (h *Handler) DeletePlacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.db.DeletePlacement(r.Context(), id); err != nil {
		respondStoreError(w, err, "placement")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// placementView decorates a placement with its derived state. The state is
// never stored; it is always computed from the window at response time.
func placementView(p *models.ContentPlacement) map[string]interface{} {
	return map[string]interface{}{
		"placement": p,
		"state":     p.StateAt(time.Now().UTC()),
	}
}
