// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

/*
Package auth provides authentication for the admin catalog API.

Three modes are supported, selected via AUTH_MODE:

  - "jwt" (default): clients obtain a token from POST /api/v1/auth/login
    with the configured admin credentials, then send it as a Bearer token.
    Tokens are HMAC-SHA256 signed and expire after the configured session
    timeout.
  - "basic": HTTP Basic Authentication checked on every request, with the
    admin password bcrypt-hashed at startup.
  - "none": no authentication. Only sensible for local development.

Public read endpoints (page composition, section previews, health,
metrics) are never behind authentication; the middleware is applied only
to catalog mutation routes and the recommendations ingest endpoint.
*/
package auth
