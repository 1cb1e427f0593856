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

// UpsertRecommendations bulk-ingests per-profile relevance scores, the
// input to the personalization hook. Existing scores for the same
// (profile, content) pairs are replaced.
//
// POST /api/v1/recommendations
func (h *Handler) UpsertRecommendations(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertRecommendationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.db.UpsertRecommendations(r.Context(), req.ProfileID, req.Scores); err != nil {
		respondStoreError(w, err, "recommendations")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"profile_id": req.ProfileID,
		"upserted":   len(req.Scores),
	})
}

// DeleteRecommendations removes all scores for a profile, reverting its
// personalized sections to editorial order.
//
// DELETE /api/v1/recommendations/{profile_id}
func (h *Handler) DeleteRecommendations(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "profile_id is required", nil)
		return
	}

	if err := h.db.DeleteRecommendations(r.Context(), profileID); err != nil {
		respondStoreError(w, err, "recommendations")
		return
	}

	h.compose.Invalidate()
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": profileID})
}
