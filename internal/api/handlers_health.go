// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"net/http"
	"time"
)

// Health reports overall service health including store connectivity,
// cache statistics, and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	stats := h.compose.CacheStats()
	hitRate := 0.0
	if total := stats.Hits + stats.Misses; total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100.0
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":             status,
		"version":            "1.0.0",
		"database_connected": dbConnected,
		"cache_entries":      stats.TotalKeys,
		"cache_hit_rate":     hitRate,
		"uptime_seconds":     time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe. Returns 200 whenever the process is
// up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe. Returns 503 until the catalog store
// answers a ping, so load balancers keep traffic away during startup.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Catalog store is not ready", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
