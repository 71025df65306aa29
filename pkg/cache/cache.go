package cache

import (
	"context"
	"time"
)

// Cache is a string-keyed cache with per-entry TTL.
//
// TTL passed to Set: positive expires after the duration, zero uses the
// cache default, negative never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Stats are cumulative counters since the cache was created.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}
