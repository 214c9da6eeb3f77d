package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-process BytesCache. Expiry is lazy: a stale entry
// lingers until the next read touches it, which is acceptable for the
// handful of hot response keys the handlers produce.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
}

type ttlEntry struct {
	payload []byte
	expires int64 // unix nanos, 0 means no expiry
}

func (e ttlEntry) stale(now int64) bool {
	return e.expires != 0 && now > e.expires
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]ttlEntry)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	now := time.Now().UnixNano()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	switch {
	case !ok:
		return nil, false, nil
	case e.stale(now):
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.stale(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	e := ttlEntry{payload: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
