// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package supervisor provides process supervision for Marquee using suture v4.

The tree is intentionally small:

	RootSupervisor ("marquee")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed HTTP server is restarted with exponential backoff instead of
taking the process down. Supervisor events are logged through slog via the
sutureslog adapter, bridged onto the zerolog global logger.
*/
package supervisor
