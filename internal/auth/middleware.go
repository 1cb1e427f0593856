// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/marqueehq/marquee/internal/logging"
	"github.com/marqueehq/marquee/internal/models"
)

type contextKey string

// ClaimsContextKey is the context key under which validated JWT claims are
// stored for downstream handlers.
const ClaimsContextKey contextKey = "auth_claims"

// Middleware enforces authentication on protected routes according to the
// configured mode: "none" disables auth entirely, "basic" checks HTTP Basic
// credentials per request, "jwt" requires a bearer token from /auth/login.
type Middleware struct {
	jwtManager       *JWTManager
	basicAuthManager *BasicAuthManager
	authMode         string
}

// NewMiddleware creates authentication middleware. Managers may be nil when
// the corresponding mode is not in use.
func NewMiddleware(jwtManager *JWTManager, basicAuthManager *BasicAuthManager, authMode string) *Middleware {
	return &Middleware{
		jwtManager:       jwtManager,
		basicAuthManager: basicAuthManager,
		authMode:         authMode,
	}
}

// Authenticate wraps a handler with the configured authentication check.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch m.authMode {
		case "none":
			next(w, r)
		case "basic":
			m.authenticateBasic(next, w, r)
		default:
			m.authenticateJWT(next, w, r)
		}
	}
}

func (m *Middleware) authenticateBasic(next http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	if err := m.basicAuthManager.ValidateCredentials(r.Header.Get("Authorization")); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Str("path", r.URL.Path).
			Msg("Basic auth failed")
		w.Header().Set("WWW-Authenticate", m.basicAuthManager.GetWWWAuthenticateHeader())
		writeAuthError(w, "invalid credentials")
		return
	}
	next(w, r)
}

func (m *Middleware) authenticateJWT(next http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		writeAuthError(w, "missing or malformed bearer token")
		return
	}

	claims, err := m.jwtManager.ValidateToken(authHeader[len(prefix):])
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Str("path", r.URL.Path).
			Msg("JWT validation failed")
		writeAuthError(w, "invalid or expired token")
		return
	}

	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	next(w, r.WithContext(ctx))
}

// GetClaims extracts validated JWT claims from a request context. Returns
// nil when the request was not authenticated via JWT.
func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	//nolint:errcheck // nothing to do if the client is gone
	json.NewEncoder(w).Encode(models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
