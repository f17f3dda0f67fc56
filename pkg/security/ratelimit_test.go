package security

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckLimitAllowsUpToMax(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiterWithClock(clock.Now)
	start := clock.Now()

	for i := 1; i <= 5; i++ {
		limit := limiter.CheckLimit("u", 5, time.Minute)
		require.True(t, limit.Allowed, "attempt %d", i)
		assert.Equal(t, 5-i, limit.Remaining)
		assert.Equal(t, start.Add(time.Minute), limit.ResetTime)
		clock.Advance(time.Second)
	}

	limit := limiter.CheckLimit("u", 5, time.Minute)
	assert.False(t, limit.Allowed)
	assert.Equal(t, 0, limit.Remaining)
	assert.Equal(t, start.Add(time.Minute), limit.ResetTime)
	assert.Equal(t, 5, limiter.Attempts("u", time.Minute), "denied attempts are not recorded")
}

func TestCheckLimitSlidingWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiterWithClock(clock.Now)
	start := clock.Now()

	for i := 0; i < 5; i++ {
		limiter.CheckLimit("u", 5, time.Minute)
		clock.Advance(10 * time.Second)
	}
	// now = start+50s, oldest attempt at start.
	assert.False(t, limiter.CheckLimit("u", 5, time.Minute).Allowed)

	// At exactly start+60s the oldest attempt leaves the window.
	clock.Advance(10 * time.Second)
	limit := limiter.CheckLimit("u", 5, time.Minute)
	assert.True(t, limit.Allowed)
	assert.Equal(t, 0, limit.Remaining)
	assert.Equal(t, start.Add(10*time.Second).Add(time.Minute), limit.ResetTime)
}

func TestCheckLimitIdentifiersAreIndependent(t *testing.T) {
	limiter := NewRateLimiterWithClock(newFakeClock().Now)
	assert.True(t, limiter.CheckLimit("a", 1, time.Minute).Allowed)
	assert.False(t, limiter.CheckLimit("a", 1, time.Minute).Allowed)
	assert.True(t, limiter.CheckLimit("b", 1, time.Minute).Allowed)
}

func TestCheckLimitZeroMax(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiterWithClock(clock.Now)
	limit := limiter.CheckLimit("u", 0, time.Minute)
	assert.False(t, limit.Allowed)
	assert.Equal(t, clock.Now().Add(time.Minute), limit.ResetTime)
}

func TestClear(t *testing.T) {
	limiter := NewRateLimiterWithClock(newFakeClock().Now)
	limiter.CheckLimit("u", 1, time.Minute)
	limiter.Clear("u")
	assert.True(t, limiter.CheckLimit("u", 1, time.Minute).Allowed)
}

func TestSweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiterWithClock(clock.Now)
	limiter.CheckLimit("idle", 5, time.Minute)
	clock.Advance(45 * time.Second)
	limiter.CheckLimit("active", 5, time.Minute)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, limiter.Sweep(time.Minute))
	assert.Equal(t, 0, limiter.Attempts("idle", time.Minute))
	assert.Equal(t, 1, limiter.Attempts("active", time.Minute))
}

func TestSweepKeepsLongerWindows(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiterWithClock(clock.Now)
	for range 30 {
		require.True(t, limiter.CheckLimit("127.0.0.1:/api/security/logs", 30, time.Minute).Allowed)
	}
	limiter.CheckLimit("form", 5, 10*time.Second)
	clock.Advance(15 * time.Second)

	assert.Equal(t, 1, limiter.Sweep(10*time.Second))
	assert.Equal(t, 30, limiter.Attempts("127.0.0.1:/api/security/logs", time.Minute))
	assert.False(t, limiter.CheckLimit("127.0.0.1:/api/security/logs", 30, time.Minute).Allowed)
}

func TestRunStopsOnCancel(t *testing.T) {
	limiter := NewRateLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
