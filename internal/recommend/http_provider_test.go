// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/config"
)

func testRecommendConfig(url string) *config.RecommendConfig {
	return &config.RecommendConfig{
		Provider:            "http",
		URL:                 url,
		Timeout:             time.Second,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.6,
		BreakerTimeout:      time.Minute,
	}
}

func TestHTTPProviderFetchesScores(t *testing.T) {
	contentID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scores" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		fmt.Fprintf(w, `{"scores":[{"content_id":%q,"score":0.8}]}`, contentID)
	}))
	defer server.Close()

	p := NewHTTPProvider(testRecommendConfig(server.URL))
	scores, err := p.ScoresFor(context.Background(), "profile-1", []uuid.UUID{contentID})
	if err != nil {
		t.Fatalf("ScoresFor: %v", err)
	}
	if len(scores) != 1 || scores[contentID] != 0.8 {
		t.Errorf("unexpected scores: %v", scores)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewHTTPProvider(testRecommendConfig(server.URL))
	if _, err := p.ScoresFor(context.Background(), "profile-1", []uuid.UUID{uuid.New()}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestHTTPProviderBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewHTTPProvider(testRecommendConfig(server.URL))
	ctx := context.Background()
	ids := []uuid.UUID{uuid.New()}

	// Enough failures to trip the breaker (min 3 requests, 60% failure).
	for i := 0; i < 5; i++ {
		_, _ = p.ScoresFor(ctx, "profile-1", ids)
	}

	_, err := p.ScoresFor(ctx, "profile-1", ids)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable once circuit is open, got %v", err)
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	// A closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := NewHTTPProvider(testRecommendConfig(server.URL))
	_, err := p.ScoresFor(context.Background(), "profile-1", []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestHTTPProviderRateLimiterRespectsContext(t *testing.T) {
	cfg := testRecommendConfig("http://127.0.0.1:0")
	cfg.RequestsPerSecond = 0.001 // effectively blocks after the first token
	p := NewHTTPProvider(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Consume the single available token, then expect the wait to abort.
	_, _ = p.ScoresFor(ctx, "profile-1", []uuid.UUID{uuid.New()})
	_, err := p.ScoresFor(ctx, "profile-1", []uuid.UUID{uuid.New()})
	if err == nil {
		t.Fatal("expected rate limit wait to fail on expired context")
	}
}
