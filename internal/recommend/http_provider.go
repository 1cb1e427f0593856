// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/marqueehq/marquee/internal/config"
	"github.com/marqueehq/marquee/internal/logging"
	"github.com/marqueehq/marquee/internal/metrics"
)

// ErrProviderUnavailable is returned when the remote scorer cannot be
// reached, including when the circuit breaker is open.
var ErrProviderUnavailable = errors.New("recommendation provider unavailable")

// scoreRequest is the wire format sent to the remote scoring service.
type scoreRequest struct {
	ProfileID  string      `json:"profile_id"`
	ContentIDs []uuid.UUID `json:"content_ids"`
}

// scoreResponse is the wire format returned by the remote scoring service.
type scoreResponse struct {
	Scores []struct {
		ContentID uuid.UUID `json:"content_id"`
		Score     float64   `json:"score"`
	} `json:"scores"`
}

// HTTPProvider fetches scores from a remote scoring service.
//
// The provider layers two protections in front of the remote call: a
// client-side token bucket (golang.org/x/time/rate) so a burst of page
// renders cannot flood the scorer, and a circuit breaker (sony/gobreaker)
// so a degraded scorer stops receiving traffic entirely until it
// recovers. Breaker rejections surface as ErrProviderUnavailable; callers
// treat that the same as any other provider failure.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[map[uuid.UUID]float64]
	name    string
}

// NewHTTPProvider creates a remote score provider from configuration.
func NewHTTPProvider(cfg *config.RecommendConfig) *HTTPProvider {
	const cbName = "recommend-http"

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[map[uuid.UUID]float64](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening recommendation circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] Recommendation provider state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &HTTPProvider{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cb:      cb,
		name:    cbName,
	}
}

// ScoresFor implements ScoreProvider.
func (p *HTTPProvider) ScoresFor(ctx context.Context, profileID string, contentIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	scores, err := p.cb.Execute(func() (map[uuid.UUID]float64, error) {
		return p.fetch(ctx, profileID, contentIDs)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordRecommendRequest("http", "open", time.Since(start))
			return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
		}
		metrics.RecordRecommendRequest("http", "error", time.Since(start))
		return nil, err
	}

	metrics.RecordRecommendRequest("http", "ok", time.Since(start))
	return scores, nil
}

// fetch performs the actual remote call.
func (p *HTTPProvider) fetch(ctx context.Context, profileID string, contentIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	body, err := json.Marshal(scoreRequest{ProfileID: profileID, ContentIDs: contentIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/scores", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}

	scores := make(map[uuid.UUID]float64, len(decoded.Scores))
	for _, s := range decoded.Scores {
		scores[s.ContentID] = s.Score
	}
	return scores, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
