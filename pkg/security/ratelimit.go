package security

import (
	"context"
	"sync"
	"time"

	"github.com/oarkflow/contact/pkg/metrics"
)

// Limit is the outcome of a CheckLimit call.
type Limit struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"resetTime"`
}

// RateLimiter counts attempts per identifier over a sliding window. Stale
// timestamps are pruned lazily, on the next check for the same identifier.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	windows  map[string]time.Duration
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithClock(time.Now)
}

func NewRateLimiterWithClock(now func() time.Time) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		windows:  make(map[string]time.Duration),
		now:      now,
	}
}

// CheckLimit records an attempt for identifier unless maxAttempts attempts
// already fall inside the window ending now. A refused attempt is not
// recorded. ResetTime is the moment the oldest retained attempt leaves the
// window.
func (r *RateLimiter) CheckLimit(identifier string, maxAttempts int, window time.Duration) Limit {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	recent := prune(r.attempts[identifier], now, window)
	if window > r.windows[identifier] {
		r.windows[identifier] = window
	}

	if len(recent) >= maxAttempts {
		if len(recent) > 0 {
			r.attempts[identifier] = recent
		} else {
			r.forget(identifier)
		}
		metrics.RateLimitDecisions.WithLabelValues("denied").Inc()
		return Limit{
			Allowed:   false,
			Remaining: 0,
			ResetTime: resetTime(recent, now, window),
		}
	}

	recent = append(recent, now)
	r.attempts[identifier] = recent
	metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()
	metrics.RateLimitTracked.Set(float64(len(r.attempts)))
	return Limit{
		Allowed:   true,
		Remaining: maxAttempts - len(recent),
		ResetTime: resetTime(recent, now, window),
	}
}

// Clear forgets every attempt recorded for identifier.
func (r *RateLimiter) Clear(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forget(identifier)
	metrics.RateLimitTracked.Set(float64(len(r.attempts)))
}

// Attempts returns the attempts for identifier still inside window.
func (r *RateLimiter) Attempts(identifier string, window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(prune(r.attempts[identifier], r.now(), window))
}

// Sweep drops identifiers whose attempts are all older than window and
// returns how many were removed. An identifier checked with a longer window
// is pruned with that window instead.
func (r *RateLimiter) Sweep(window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for identifier, times := range r.attempts {
		recent := prune(times, now, max(window, r.windows[identifier]))
		if len(recent) == 0 {
			r.forget(identifier)
			removed++
			continue
		}
		r.attempts[identifier] = recent
	}
	metrics.RateLimitTracked.Set(float64(len(r.attempts)))
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *RateLimiter) Run(ctx context.Context, interval, window time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(window)
		}
	}
}

func (r *RateLimiter) forget(identifier string) {
	delete(r.attempts, identifier)
	delete(r.windows, identifier)
}

// prune keeps the timestamps with now-t < window. The input keeps its
// chronological order so the result does too.
func prune(times []time.Time, now time.Time, window time.Duration) []time.Time {
	recent := make([]time.Time, 0, len(times)+1)
	for _, t := range times {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}
	return recent
}

func resetTime(recent []time.Time, now time.Time, window time.Duration) time.Time {
	if len(recent) == 0 {
		return now.Add(window)
	}
	return recent[0].Add(window)
}
