package ratelimit

import (
	"testing"

	"github.com/rantslabs/rants/internal/config"
)

func TestBucketExhaustsBurst(t *testing.T) {
	b := NewBucket(0.001, 3) // effectively no refill during the test
	for i := 0; i < 3; i++ {
		if !b.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if b.Allow() {
		t.Error("burst exhausted, request should be rejected")
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{Enabled: false})
	for i := 0; i < 100; i++ {
		if !l.Allow("acme") {
			t.Fatal("disabled limiter must always allow")
		}
	}
}

func TestLimiterPerTenant(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	if !l.Allow("acme") {
		t.Fatal("first request should pass")
	}
	if l.Allow("acme") {
		t.Error("second request should be rejected")
	}
	// A different tenant has its own bucket.
	if !l.Allow("globex") {
		t.Error("other tenant should not share the bucket")
	}
}
