package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryOption configures the in-process cache.
type MemoryOption func(*MemoryCache)

// WithMemoryMaxSize caps the number of live entries. When the cap is hit,
// the entry closest to expiry is evicted.
func WithMemoryMaxSize(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithMemoryCleanup sets how often expired entries are swept.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if interval > 0 {
			c.sweepEvery = interval
		}
	}
}

type memEntry struct {
	payload []byte
	expires time.Time
}

// MemoryCache is a map-backed Service with TTL expiry and a background
// sweeper. Values are stored JSON-encoded so Get/Set behave identically
// to the redis implementation.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memEntry
	maxSize    int
	sweepEvery time.Duration
}

// NewMemoryCache builds a memory cache and starts its sweeper.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memEntry),
		maxSize:    4096,
		sweepEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxSize {
		if _, exists := c.entries[key]; !exists {
			c.evictSoonestLocked()
		}
	}
	c.entries[key] = memEntry{payload: payload, expires: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expires) {
		return ErrMiss
	}
	return json.Unmarshal(entry.payload, dest)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// evictSoonestLocked drops the entry with the nearest expiry. Caller holds
// the write lock.
func (c *MemoryCache) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expires.Before(soonest) {
			victim = key
			soonest = entry.expires
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.expires) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
