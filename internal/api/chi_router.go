// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marqueehq/marquee/internal/auth"
	"github.com/marqueehq/marquee/internal/middleware"
)

// Router wires handlers, authentication, and Chi ecosystem middleware
// into an HTTP handler.
type Router struct {
	handler       *Handler
	authMW        *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		authMW:        authMW,
		chiMiddleware: chiMW,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so the api middleware stack works with
// r.Use().
func chiAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes.
//
// Public read endpoints (page composition, section previews) are
// unauthenticated; catalog mutations and the recommendations ingest live
// behind the configured auth mode.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chiAdapter(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
	})

	// Public composition endpoints.
	r.Route("/api/v1/pages", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Get("/{name}", router.handler.ComposePage)
	})
	r.Route("/api/v1/sections", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Get("/{id}/items", router.handler.SectionItems)
	})

	// Admin catalog endpoints.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Use(chiAdapter(router.authMW.Authenticate))

		r.Post("/content", router.handler.CreateContent)
		r.Get("/content", router.handler.ListContent)
		r.Get("/content/{id}", router.handler.GetContent)
		r.Put("/content/{id}", router.handler.UpdateContent)
		r.Delete("/content/{id}", router.handler.DeleteContent)

		r.Post("/pages", router.handler.CreatePage)
		r.Get("/pages", router.handler.ListPages)
		r.Get("/pages/{id}", router.handler.GetPage)
		r.Put("/pages/{id}", router.handler.UpdatePage)
		r.Delete("/pages/{id}", router.handler.DeletePage)

		r.Post("/sections", router.handler.CreateSection)
		r.Get("/sections", router.handler.ListSections)
		r.Get("/sections/{id}", router.handler.GetSection)
		r.Put("/sections/{id}", router.handler.UpdateSection)
		r.Delete("/sections/{id}", router.handler.DeleteSection)

		r.Post("/placements", router.handler.CreatePlacement)
		r.Get("/placements", router.handler.ListPlacements)
		r.Get("/placements/{id}", router.handler.GetPlacement)
		r.Put("/placements/{id}", router.handler.UpdatePlacement)
		r.Delete("/placements/{id}", router.handler.DeletePlacement)
	})

	// Recommendation score ingest, also admin-only.
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Use(chiAdapter(router.authMW.Authenticate))

		r.Post("/", router.handler.UpsertRecommendations)
		r.Delete("/{profile_id}", router.handler.DeleteRecommendations)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
