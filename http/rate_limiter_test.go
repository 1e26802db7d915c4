package http

import (
	"testing"
	"time"
)

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	now = now.Add(20 * time.Second)
	ok, retryAfter := limiter.Allow("10.0.0.1")
	if ok {
		t.Fatalf("third request should be limited")
	}
	if retryAfter != 40*time.Second {
		t.Errorf("expected retry after 40s, got %v", retryAfter)
	}

	if ok, _ := limiter.Allow("10.0.0.2"); !ok {
		t.Errorf("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if ok, _ := limiter.Allow("10.0.0.1"); !ok {
		t.Errorf("bucket should refill after the window")
	}
}

func TestRateLimiter_ZeroCapacityDisables(t *testing.T) {
	limiter := NewRateLimiter(0, time.Minute)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("k"); !ok {
			t.Fatalf("limiter with zero capacity should never block")
		}
	}
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.Allow("idle")

	now = now.Add(2 * time.Hour)
	limiter.cleanup()

	if len(limiter.clients) != 0 {
		t.Errorf("expected idle bucket to be removed, have %d", len(limiter.clients))
	}
}
