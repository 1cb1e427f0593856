// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package database provides DuckDB-backed persistence for the Marquee
catalog.

The DB type wraps a database/sql connection to an embedded DuckDB engine
and exposes typed CRUD methods for every catalog entity: content, pages,
sections, placements, and recommendations.

Error contract:

Data access methods return the package sentinels ErrNotFound,
ErrConflict, and ErrUnavailable wrapped with context; callers use
errors.Is to map them onto API error codes. Uniqueness violations are
detected with INSERT ... ON CONFLICT DO NOTHING plus a RowsAffected
check rather than by parsing driver error strings.

Read path:

Page composition reads placements and content through
ListPlacementsForSection and ContentByIDs. Window filtering, ordering,
and limits are deliberately NOT pushed into SQL: the resolver applies
them in Go against an explicit evaluation instant, so previews at a
future instant use exactly the same code path as live renders.
*/
package database
