// Package ratelimit throttles API clients with one token bucket per client and tier.
package ratelimit

import (
	"sync"
	"time"
)

// idleTTL is how long an untouched bucket survives cleanup.
const idleTTL = time.Hour

// bucket refills continuously at limit/window tokens per second up to capacity.
type bucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

func newBucket(tl TierLimit, now time.Time) *bucket {
	return &bucket{
		capacity:   tl.capacity(),
		refillRate: float64(tl.Limit) / tl.Window.Seconds(),
		tokens:     float64(tl.capacity()),
		lastRefill: now,
		lastUsed:   now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = min(float64(b.capacity), b.tokens+elapsed*b.refillRate)
	}
	b.lastRefill = now
}

// take consumes a token if one is available and reports the bucket state
// after the attempt.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, full time.Time, retryAfter time.Duration) {
	b.refill(now)
	b.lastUsed = now

	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	} else {
		retryAfter = b.until(1 - b.tokens)
	}
	return allowed, int(b.tokens), now.Add(b.until(float64(b.capacity) - b.tokens)), retryAfter
}

// until is how long the bucket needs to gain n tokens.
func (b *bucket) until(n float64) time.Duration {
	if n <= 0 || b.refillRate <= 0 {
		return 0
	}
	return time.Duration(n / b.refillRate * float64(time.Second))
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Tier       Tier
	Limit      int
	Remaining  int
	ResetTime  time.Time // when the bucket is full again
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	// Tiers holds the allowance per tier. A tier that is missing or has a
	// non-positive limit is not limited.
	Tiers           map[Tier]TierLimit
	EndpointConfigs []EndpointConfig
	// Now defaults to time.Now.
	Now             func() time.Time
}

// Limiter hands out tokens per (client, tier).
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config routes the SmartHire endpoints,
// allows 1000 reads a minute and leaves the other tiers open.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			CleanupInterval: 5 * time.Minute,
			Tiers:           map[Tier]TierLimit{TierRead: {Limit: 1000, Window: time.Minute}},
			EndpointConfigs: DefaultEndpointConfigs(),
		}
	}

	l := &Limiter{
		config:  config,
		now:     config.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if l.now == nil {
		l.now = time.Now
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may call method on path now.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true, Tier: TierOpen}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Tier: TierBlocked}
	}

	tier := MatchEndpoint(path, method, l.config.EndpointConfigs)
	tl, ok := l.config.Tiers[tier]
	if tier == TierOpen || !ok || tl.Limit <= 0 || tl.Window <= 0 {
		return true, Info{Allowed: true, Tier: tier}
	}

	now := l.now()
	key := clientID + "|" + string(tier)

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(tl, now)
		l.buckets[key] = b
	}
	allowed, remaining, full, retryAfter := b.take(now)
	l.mu.Unlock()

	return allowed, Info{
		Allowed:    allowed,
		Tier:       tier,
		Limit:      tl.Limit,
		Remaining:  remaining,
		ResetTime:  full,
		RetryAfter: retryAfter,
	}
}

// Buckets reports how many client buckets are live.
func (l *Limiter) Buckets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets nobody used within idleTTL.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
