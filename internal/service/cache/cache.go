// Package cache holds the short-TTL response caches used by the HTTP
// handlers. Rendered response envelopes are stored as raw bytes so a
// cache hit skips re-marshaling entirely.
package cache

import "time"

// BytesCache is the minimal store-bytes-with-TTL API the handlers need.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
