// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package compose renders pages by resolving every section concurrently and
joining the results in display order.

Failure policy:

A page render degrades, it does not fail. Each section resolves under its
own timeout in its own goroutine; a store error or timeout in one section
becomes an inline SectionView.Error marker while the other sections render
normally. Only two conditions fail the whole request: the page itself does
not exist, or its section list cannot be loaded at all.

Personalization sits one layer further down the same gradient: when the
score provider fails or returns nothing, the section silently keeps its
editorial order. A broken recommendation pipeline is invisible to viewers.

Caching:

Wall-clock renders are cached per (page, profile, limit) with a short TTL.
Renders at an explicit evaluation instant bypass the cache in both
directions. Admin mutations call Invalidate to drop all cached renders.
*/
package compose
