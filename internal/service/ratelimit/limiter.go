// Package ratelimit provides the per-caller token buckets guarding the
// analysis endpoints. Each (IP, endpoint) pair gets its own bucket.
package ratelimit

import (
	"sync"
	"time"
)

// Buckets untouched this long are evicted on the next Allow call.
const staleAfter = time.Hour

type bucket struct {
	tokens   float64
	capacity float64
	refill   float64 // tokens per second
	last     time.Time
}

type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	sweep   time.Time
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket), sweep: time.Now()}
}

// Allow consumes one token for key if available. capacity and
// refillPerSec shape the bucket on first use.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > staleAfter {
		l.evictStale(now)
		l.sweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refill: refillPerSec, last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refill
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *Limiter) evictStale(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.last) > staleAfter {
			delete(l.buckets, key)
		}
	}
}
