// Package backoff provides exponential backoff and retry helpers for
// upstream model calls.
package backoff

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrAttemptsExhausted is returned when every retry attempt has failed.
var ErrAttemptsExhausted = errors.New("max retry attempts exhausted")

// Policy defines exponential backoff parameters. The delay before retrying
// attempt n (0-indexed) is Initial * Factor^n, capped at Max.
type Policy struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// DefaultPolicy doubles a 500ms initial delay up to 30s.
func DefaultPolicy() Policy {
	return Policy{Initial: 500 * time.Millisecond, Max: 30 * time.Second, Factor: 2}
}

// Delay computes the backoff duration after a failed attempt (0-indexed).
func (p Policy) Delay(attempt int) time.Duration {
	if p.Initial <= 0 {
		return 0
	}
	factor := p.Factor
	if factor <= 0 {
		factor = 2
	}
	delay := time.Duration(float64(p.Initial) * math.Pow(factor, float64(attempt)))
	if p.Max > 0 && delay > p.Max {
		delay = p.Max
	}
	return delay
}

// Sleep waits for the attempt's backoff delay, returning early with the
// context error if the context is cancelled.
func Sleep(ctx context.Context, policy Policy, attempt int) error {
	delay := policy.Delay(attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs fn up to maxRetries+1 times, sleeping between attempts
// according to the policy. The last error is returned once attempts are
// exhausted; context cancellation aborts immediately.
func Retry[T any](ctx context.Context, policy Policy, maxRetries int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		value, err := fn()
		if err == nil {
			return value, nil
		}
		lastErr = err
		if attempt >= maxRetries {
			break
		}
		if err := Sleep(ctx, policy, attempt); err != nil {
			return zero, err
		}
	}
	if lastErr == nil {
		lastErr = ErrAttemptsExhausted
	}
	return zero, lastErr
}
