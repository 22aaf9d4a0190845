// Package ratelimit provides a token-bucket limiter for the optimize
// endpoint. Every optimization costs between one and three model calls, so
// the API caps how fast a single client can submit requests.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds limiter configuration.
type Config struct {
	Enabled    bool
	Burst      int     // bucket capacity
	RefillRate float64 // tokens per second
}

// DefaultConfig allows short bursts with a sustained rate of one request
// every few seconds per client.
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Burst:      5,
		RefillRate: 0.25,
	}
}

// bucket is a single client's token bucket.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter manages per-client token buckets.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	now     func() time.Time
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}
}

// Allow reports whether the client may proceed, consuming a token if so.
func (l *Limiter) Allow(clientID string) bool {
	if !l.config.Enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	now := l.now()
	if !ok {
		b = &bucket{tokens: float64(l.config.Burst), lastRefill: now}
		l.buckets[clientID] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(float64(l.config.Burst), b.tokens+elapsed*l.config.RefillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Prune drops buckets idle longer than maxIdle so the map does not grow
// unboundedly. Callers run it periodically.
func (l *Limiter) Prune(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxIdle)
	for id, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, id)
		}
	}
}
