// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

// errors.go - Mapping of store errors to HTTP responses.
package api

import (
	"errors"
	"net/http"

	"github.com/marqueehq/marquee/internal/database"
)

// respondStoreError maps database sentinel errors onto the API error
// vocabulary. resource names what was being operated on ("page",
// "placement") for the error message.
func respondStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", resource+" conflicts with an existing record", nil)
	case errors.Is(err, database.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Catalog store is unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to access "+resource, err)
	}
}
