// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("page:home", "rendered")
	got, ok := c.Get("page:home")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "rendered" {
		t.Errorf("expected %q, got %v", "rendered", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected cache miss")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("page:home", "rendered", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("page:home"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("page:home", "a")
	c.Set("page:movies", "b")
	c.Clear()

	if _, ok := c.Get("page:home"); ok {
		t.Error("expected entry gone after Clear")
	}
	if stats := c.GetStats(); stats.TotalKeys != 0 {
		t.Errorf("expected 0 keys after Clear, got %d", stats.TotalKeys)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("page:home", "a")
	c.Delete("page:home")
	if _, ok := c.Get("page:home"); ok {
		t.Error("expected entry gone after Delete")
	}

	// Deleting a missing key is a no-op.
	c.Delete("missing")
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Get("key")
	c.Get("key")
	c.Get("missing")

	if rate := c.HitRate(); rate < 66.0 || rate > 67.0 {
		t.Errorf("expected hit rate ~66.7%%, got %.2f", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := GenerateKey("page", n)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKeyStable(t *testing.T) {
	type params struct {
		Page    string
		Profile string
	}

	a := GenerateKey("compose", params{Page: "home", Profile: "p1"})
	b := GenerateKey("compose", params{Page: "home", Profile: "p1"})
	if a != b {
		t.Errorf("same params produced different keys: %q vs %q", a, b)
	}

	other := GenerateKey("compose", params{Page: "home", Profile: "p2"})
	if a == other {
		t.Error("different params produced the same key")
	}
}
