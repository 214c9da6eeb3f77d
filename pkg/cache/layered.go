package cache

import (
	"context"
	"time"
)

// LayeredOption configures the layered cache.
type LayeredOption func(*LayeredCache)

// WithLayeredMemorySize caps the L1 memory layer.
func WithLayeredMemorySize(n int) LayeredOption {
	return func(c *LayeredCache) { c.l1 = NewMemoryCache(WithMemoryMaxSize(n)) }
}

// LayeredCache fronts a slower Service with an in-process memory layer.
// Gets that miss L1 but hit the backing store are backfilled into L1 with
// a short TTL so hot keys stay local.
type LayeredCache struct {
	l1      *MemoryCache
	backing Service
	l1TTL   time.Duration
}

// NewLayeredCache wraps backing with a memory front.
func NewLayeredCache(backing Service, opts ...LayeredOption) *LayeredCache {
	c := &LayeredCache{
		l1:      NewMemoryCache(),
		backing: backing,
		l1TTL:   time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	l1TTL := ttl
	if l1TTL > c.l1TTL {
		l1TTL = c.l1TTL
	}
	_ = c.l1.Set(ctx, key, value, l1TTL)
	return c.backing.Set(ctx, key, value, ttl)
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.l1.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := c.backing.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = c.l1.Set(ctx, key, dest, c.l1TTL)
	return nil
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = c.l1.Delete(ctx, keys...)
	return c.backing.Delete(ctx, keys...)
}
