// Package ratelimit provides per-tenant token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"

	"github.com/rantslabs/rants/internal/config"
)

// Bucket implements token bucket rate limiting.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewBucket creates a bucket refilling at ratePerSecond with the given burst
// capacity.
func NewBucket(ratePerSecond float64, burst int) *Bucket {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Bucket{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: ratePerSecond,
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// refill adds tokens based on time elapsed (must be called with lock held).
func (b *Bucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.lastRefill = now

	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
}

// Limiter maintains one bucket per tenant.
type Limiter struct {
	mu      sync.Mutex
	cfg     config.RateLimitConfig
	buckets map[string]*Bucket
}

// NewLimiter builds a limiter from the gateway rate limit configuration.
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	return &Limiter{cfg: cfg, buckets: make(map[string]*Bucket)}
}

// Allow reports whether the tenant may proceed. A disabled limiter always
// allows.
func (l *Limiter) Allow(tenantID string) bool {
	if !l.cfg.Enabled {
		return true
	}
	l.mu.Lock()
	bucket, ok := l.buckets[tenantID]
	if !ok {
		bucket = NewBucket(float64(l.cfg.RequestsPerMinute)/60.0, l.cfg.Burst)
		l.buckets[tenantID] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}
