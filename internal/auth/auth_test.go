// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marqueehq/marquee/internal/config"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		AuthMode:       "jwt",
		JWTSecret:      "test-secret-key-that-is-long-enough!",
		SessionTimeout: time.Hour,
		AdminUsername:  "admin",
		AdminPassword:  "correct-horse-battery",
	}
}

func TestJWTTokenRoundtrip(t *testing.T) {
	mgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := mgr.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username admin, got %q", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestJWTExpiredToken(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.SessionTimeout = -time.Minute
	mgr, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := mgr.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := mgr.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for expired token")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	mgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := mgr.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := testSecurityConfig()
	other.JWTSecret = "a-completely-different-secret-value!"
	otherMgr, err := NewJWTManager(other)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	if _, err := otherMgr.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestJWTManagerRequiresSecret(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.JWTSecret = ""
	if _, err := NewJWTManager(cfg); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	mgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	if _, err := mgr.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected validation to fail for garbage token")
	}
}

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestBasicAuthValidateCredentials(t *testing.T) {
	mgr, err := NewBasicAuthManager("admin", "secret-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager failed: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid credentials", basicHeader("admin", "secret-password"), false},
		{"wrong password", basicHeader("admin", "wrong"), true},
		{"wrong username", basicHeader("root", "secret-password"), true},
		{"missing header", "", true},
		{"wrong scheme", "Bearer abc123", true},
		{"invalid base64", "Basic !!!not-base64!!!", true},
		{"no colon separator", "Basic " + base64.StdEncoding.EncodeToString([]byte("adminonly")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.ValidateCredentials(tt.header)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBasicAuthRequiresCredentials(t *testing.T) {
	if _, err := NewBasicAuthManager("", "password"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := NewBasicAuthManager("admin", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestMiddlewareNoneMode(t *testing.T) {
	mw := NewMiddleware(nil, nil, "none")

	called := false
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pages", nil))

	if !called {
		t.Error("expected handler to be called in none mode")
	}
}

func TestMiddlewareJWTMode(t *testing.T) {
	jwtMgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	mw := NewMiddleware(jwtMgr, nil, "jwt")

	token, err := jwtMgr.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantClaims bool
	}{
		{"valid token", "Bearer " + token, http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"malformed header", "Bearer", http.StatusUnauthorized, false},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotClaims *Claims
			handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
				gotClaims = GetClaims(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pages", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantClaims && (gotClaims == nil || gotClaims.Username != "admin") {
				t.Errorf("expected claims for admin, got %+v", gotClaims)
			}
		})
	}
}

func TestMiddlewareBasicMode(t *testing.T) {
	basicMgr, err := NewBasicAuthManager("admin", "secret-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager failed: %v", err)
	}
	mw := NewMiddleware(nil, basicMgr, "basic")

	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pages", nil)
	req.Header.Set("Authorization", basicHeader("admin", "wrong"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("expected WWW-Authenticate header on 401")
	}
}
