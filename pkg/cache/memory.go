package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	expiresAt time.Time
	value     V
	key       string
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process LRU cache with lazy TTL expiry. Expired entries
// are dropped when touched or when they reach the LRU tail.
type Memory[V any] struct {
	items      map[string]*list.Element
	lru        *list.List
	group      singleflight.Group
	defaultTTL time.Duration
	maxEntries int
	hits       atomic.Uint64
	misses     atomic.Uint64
	evictions  atomic.Uint64
	mu         sync.Mutex
	closed     bool
}

// Option configures a Memory cache.
type Option func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	maxEntries int
}

// WithDefaultTTL is used when Set gets a zero TTL. Default: 1 hour.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *memoryConfig) {
		c.defaultTTL = d
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is evicted
// when full. Zero means unbounded. Default: 1024.
func WithMaxEntries(n int) Option {
	return func(c *memoryConfig) {
		c.maxEntries = max(n, 0)
	}
}

// NewMemory creates an empty cache.
func NewMemory[V any](opts ...Option) *Memory[V] {
	cfg := &memoryConfig{defaultTTL: time.Hour, maxEntries: 1024}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Memory[V]{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		defaultTTL: cfg.defaultTTL,
		maxEntries: cfg.maxEntries,
	}
}

// Get returns the value for key or ErrNotFound. A hit marks the entry as
// recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	elem, ok := m.items[key]
	if !ok {
		m.misses.Add(1)
		return zero, ErrNotFound
	}

	e := elem.Value.(*entry[V])
	if e.expired(time.Now()) {
		m.remove(elem)
		m.misses.Add(1)
		return zero, ErrNotFound
	}

	m.lru.MoveToFront(elem)
	m.hits.Add(1)
	return e.value, nil
}

// Set stores value under key.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value, e.expiresAt = value, expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		m.evict()
	}
	m.items[key] = m.lru.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete removes key if present.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Purge drops every entry. Counters are kept.
func (m *Memory[V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*list.Element)
	m.lru.Init()
}

// Close makes later writes fail with ErrClosed and releases all entries.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.items = make(map[string]*list.Element)
	m.lru.Init()
	return nil
}

// Stats returns a snapshot of the cache counters.
func (m *Memory[V]) Stats() Stats {
	m.mu.Lock()
	n := len(m.items)
	m.mu.Unlock()

	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
		Entries:   n,
	}
}

// GetOrSet returns the cached value for key or computes it with fn.
// Concurrent misses for the same key share one fn call. Errors are not cached.
func (m *Memory[V]) GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := m.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = m.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// evict drops expired entries from the tail, or the tail itself if none
// expired. Caller holds mu.
func (m *Memory[V]) evict() {
	now := time.Now()
	dropped := false
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[V]).expired(now) {
			m.remove(elem)
			dropped = true
		}
		elem = prev
	}
	if dropped {
		return
	}
	if tail := m.lru.Back(); tail != nil {
		m.remove(tail)
		m.evictions.Add(1)
	}
}

// remove unlinks elem. Caller holds mu.
func (m *Memory[V]) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*entry[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
