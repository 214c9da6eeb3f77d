package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Service is a small JSON object cache. Implementations marshal values on
// Set and unmarshal into dest on Get; dest must be a pointer.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// Key joins a prefix and an id into a cache key.
func Key(prefix, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}
