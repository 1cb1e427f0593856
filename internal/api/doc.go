// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package api provides the HTTP surface for Marquee.

Routes are served by a Chi router with ecosystem middleware (go-chi/cors,
go-chi/httprate) plus the in-house request ID and Prometheus middleware.

Endpoint groups:

  - GET /api/v1/pages/{name}: render a page for a viewer, optionally
    personalized (profile_id) or previewed at an explicit instant (at)
  - GET /api/v1/sections/{id}/items: resolve a single section
  - /api/v1/catalog/*: authenticated CRUD for content, pages, sections,
    and placements
  - POST /api/v1/recommendations: authenticated bulk score ingest
  - /api/v1/health, /metrics: operational endpoints

Every response uses the models.APIResponse envelope. Store errors map to
a fixed error code vocabulary in errors.go; per-section composition
failures are embedded in the page body rather than failing the request.
*/
package api
