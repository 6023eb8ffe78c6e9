package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, mini *miniredis.Miniredis, limit int) *FixedWindowLimiter {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	limiter, err := NewFixedWindowLimiter(client, "test:upload", limit, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	return limiter
}

func TestFixedWindowLimiterBlocksOverQuota(t *testing.T) {
	mini := miniredis.RunT(t)
	limiter := newTestLimiter(t, mini, 2)

	if !limiter.Allow("203.0.113.7") {
		t.Fatal("first request should pass")
	}
	if !limiter.Allow("203.0.113.7") {
		t.Fatal("second request should pass")
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("third request should be blocked")
	}
	// A different caller has its own window.
	if !limiter.Allow("198.51.100.9") {
		t.Fatal("unrelated key should not share quota")
	}
}

func TestFixedWindowLimiterFailsClosed(t *testing.T) {
	mini := miniredis.RunT(t)
	limiter := newTestLimiter(t, mini, 1)

	mini.Close()
	if limiter.Allow("203.0.113.7") {
		t.Fatal("limiter should fail closed when redis is down")
	}
}

func TestFixedWindowLimiterConstructorValidation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if _, err := NewFixedWindowLimiter(nil, "test:upload", 1, time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewFixedWindowLimiter(client, "test:upload", 0, time.Minute); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, err := NewFixedWindowLimiter(client, "test:upload", 1, 0); err == nil {
		t.Fatal("expected error for zero window")
	}
}
