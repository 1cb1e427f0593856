// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package models defines data structures for the Marquee application.

This package contains all data models used throughout the application:
database entities, rendered view models, API request/response structures,
and the derived placement scheduling state. It is the single source of
truth for data structure definitions.

Model Categories:

1. Catalog Entities:
  - Content: A placeable catalog entry (movie, series, episode, collection)
  - Page: A named, ordered collection of sections
  - Section: An ordered row within a page
  - ContentPlacement: Content pinned into a section with priority and an
    optional scheduling window
  - Recommendation: Per-profile affinity score for personalized ranking

2. View Models (composition output):
  - PageView: A fully composed page at a single evaluation instant
  - SectionView: One resolved (or failed) section
  - RenderedItem: One content tile, optionally carrying a personalization
    score

3. API Request/Response Models:
  - APIResponse / APIError / Metadata: Standard response envelope
  - Create/Update requests: Admin mutation bodies with validation tags

Derived state:

PlacementState (scheduled / active / expired) is computed from a
placement's window and an evaluation instant via StateAt. It is never
persisted; re-evaluating at a different instant can yield a different
state without any write.
*/
package models
