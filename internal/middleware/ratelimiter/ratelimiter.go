// Package ratelimiter implements a per-identity token bucket. Identities are
// client IPs or target email addresses; each gets its own bucket, and idle
// buckets expire so the map does not grow without bound.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
	timer      *time.Timer
	identity   string
	parent     *Limiter
}

// Limiter manages one bucket per identity.
type Limiter struct {
	buckets  map[string]*bucket
	mu       sync.RWMutex
	rate     float64 // tokens per second
	capacity float64
	idleTTL  time.Duration
}

// New creates a limiter refilling at rate tokens/second up to capacity.
// Buckets unused for idleTTL are dropped.
func New(rate, capacity float64, idleTTL time.Duration) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		idleTTL:  idleTTL,
	}
}

// OncePerSecond allows one request per second per identity.
func OncePerSecond() *Limiter {
	return New(1, 1, time.Hour)
}

func (l *Limiter) cleanup(identity string) {
	l.mu.Lock()
	delete(l.buckets, identity)
	l.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.idleTTL, func() {
		b.parent.cleanup(b.identity)
	})
}

func (l *Limiter) getBucket(identity string) *bucket {
	l.mu.RLock()
	b, exists := l.buckets[identity]
	l.mu.RUnlock()
	if exists {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// double-check after acquiring the write lock
	if b, exists = l.buckets[identity]; exists {
		return b
	}

	b = &bucket{
		tokens:     l.capacity,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     l,
	}
	l.buckets[identity] = b
	return b
}

// Allow reports whether the identity may proceed, consuming one token.
func (l *Limiter) Allow(identity string) bool {
	b := l.getBucket(identity)

	l.mu.Lock()
	defer l.mu.Unlock()

	b.resetTimer()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
