package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, clock *fakeClock, tiers map[Tier]TierLimit) *Limiter {
	t.Helper()
	l := NewLimiter(&Config{
		Enabled:         true,
		Tiers:           tiers,
		EndpointConfigs: DefaultEndpointConfigs(),
		Now:             clock.Now,
	})
	t.Cleanup(l.Stop)
	return l
}

func TestBucket_TakeAndRefill(t *testing.T) {
	clock := newFakeClock()
	b := newBucket(TierLimit{Limit: 60, Window: time.Minute, Burst: 3}, clock.Now())

	for i := 0; i < 3; i++ {
		allowed, remaining, _, _ := b.take(clock.Now())
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, full, retry := b.take(clock.Now())
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.Equal(t, time.Second, retry, "one token per second")
	assert.Equal(t, clock.Now().Add(3*time.Second), full)

	clock.Advance(time.Second)
	allowed, _, _, _ = b.take(clock.Now())
	assert.True(t, allowed)

	clock.Advance(time.Hour)
	b.refill(clock.Now())
	assert.Equal(t, 3.0, b.tokens, "refill stops at capacity")
}

func TestTierLimit_CapacityDefaultsToLimit(t *testing.T) {
	assert.Equal(t, 7, TierLimit{Limit: 7}.capacity())
	assert.Equal(t, 2, TierLimit{Limit: 7, Burst: 2}.capacity())
}

func TestLimiter_AgentTierIsSharedAcrossAgentEndpoints(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock, map[Tier]TierLimit{
		TierAgent: {Limit: 30, Window: time.Hour, Burst: 3},
	})

	paths := []string{"/candidates/screen", "/candidates/c1/offer", "/candidates/c2/salary-estimate"}
	for _, path := range paths {
		allowed, info := l.Allow("10.0.0.1", path, "POST")
		require.True(t, allowed, path)
		assert.Equal(t, TierAgent, info.Tier)
		assert.Equal(t, 30, info.Limit)
	}

	allowed, info := l.Allow("10.0.0.1", "/sourcing", "POST")
	assert.False(t, allowed)
	assert.Equal(t, TierAgent, info.Tier)
	assert.InDelta(t, 120, info.RetryAfter.Seconds(), 0.01, "30 per hour refills every two minutes")

	// another client has its own allowance
	allowed, _ = l.Allow("10.0.0.2", "/sourcing", "POST")
	assert.True(t, allowed)

	clock.Advance(2*time.Minute + time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/jobs/description", "POST")
	assert.True(t, allowed)
}

func TestLimiter_TiersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock, map[Tier]TierLimit{
		TierAgent: {Limit: 1, Window: time.Hour},
		TierWrite: {Limit: 2, Window: time.Minute},
		TierRead:  {Limit: 5, Window: time.Minute},
	})

	allowed, _ := l.Allow("c", "/candidates/c1/offer", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/candidates/c1/offer", "POST")
	require.False(t, allowed)

	allowed, info := l.Allow("c", "/candidates/c1/advance", "POST")
	assert.True(t, allowed)
	assert.Equal(t, TierWrite, info.Tier)

	allowed, info = l.Allow("c", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, TierRead, info.Tier)
	assert.Equal(t, 4, info.Remaining)
}

func TestLimiter_OpenAndUnconfiguredTiers(t *testing.T) {
	l := newTestLimiter(t, newFakeClock(), map[Tier]TierLimit{
		TierRead: {Limit: 1, Window: time.Minute},
	})

	for _, path := range []string{"/health", "/metrics", "/notifications/stream"} {
		for i := 0; i < 3; i++ {
			allowed, info := l.Allow("c", path, "GET")
			require.True(t, allowed, path)
			assert.Equal(t, TierOpen, info.Tier)
			assert.Zero(t, info.Limit)
		}
	}

	// no agent allowance configured means agent calls are not limited
	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("c", "/candidates/screen", "POST")
		require.True(t, allowed)
		assert.Equal(t, TierAgent, info.Tier)
	}
	assert.Zero(t, l.Buckets())
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	tiers := map[Tier]TierLimit{TierRead: {Limit: 1, Window: time.Minute}}
	l := NewLimiter(&Config{
		Enabled:   true,
		Tiers:     tiers,
		Whitelist: map[string]bool{"127.0.0.1": true},
		Blacklist: map[string]bool{"192.168.1.1": true},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed)
	}

	allowed, info := l.Allow("192.168.1.1", "/health", "GET")
	assert.False(t, allowed)
	assert.Equal(t, TierBlocked, info.Tier)

	disabled := NewLimiter(&Config{Enabled: false, Tiers: tiers})
	defer disabled.Stop()
	for i := 0; i < 10; i++ {
		allowed, _ := disabled.Allow("10.0.0.1", "/jobs", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := newTestLimiter(t, newFakeClock(), map[Tier]TierLimit{
		TierWrite: {Limit: 100, Window: time.Minute},
	})

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("c", fmt.Sprintf("/candidates/c%d", i), "PATCH"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock, map[Tier]TierLimit{
		TierRead: {Limit: 10, Window: time.Minute},
	})

	for i := 0; i < 4; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/jobs", "GET")
	}
	clock.Advance(idleTTL - time.Minute)
	l.Allow("10.0.0.0", "/jobs", "GET")

	clock.Advance(2 * time.Minute)
	l.evictIdle()

	assert.Equal(t, 1, l.Buckets())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()
	defer l.Stop()

	allowed, info := l.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, TierRead, info.Tier)
	assert.Equal(t, 1000, info.Limit)

	allowed, info = l.Allow("127.0.0.1", "/candidates/screen", "POST")
	assert.True(t, allowed)
	assert.Zero(t, info.Limit)
}
