package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterBucket(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third request should be limited")
	}
	if got := l.RetryAfter("a"); got != time.Second {
		t.Fatalf("expected 1s retry, got %v", got)
	}
	if !l.Allow("b") {
		t.Fatalf("keys must not share buckets")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("token should refill after 1.5s")
	}
	if l.Allow("a") {
		t.Fatalf("only 1.5 tokens refilled")
	}
}

func TestLimiterSweep(t *testing.T) {
	now := time.Unix(0, 0)
	l := New(120, 1)
	l.now = func() time.Time { return now }
	l.Allow("a")
	now = now.Add(time.Minute)
	if n := l.Sweep(); n != 0 {
		t.Fatalf("bucket refills in 120s, swept %d after 60s", n)
	}
	now = now.Add(time.Minute)
	if n := l.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept bucket, got %d", n)
	}
}
