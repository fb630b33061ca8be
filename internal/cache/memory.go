package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type memoryCache[V any] struct {
	mu      sync.RWMutex
	entries map[Key]entry[V]
	ttl     time.Duration
	now     func() time.Time
	sf      singleflight.Group
	// bumped on Invalidate so a load that started before it is not stored
	gen map[Key]uint64
}

type MemoryOption[V any] func(*memoryCache[V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[V any](now func() time.Time) MemoryOption[V] {
	return func(c *memoryCache[V]) { c.now = now }
}

func NewMemory[V any](ttl time.Duration, opts ...MemoryOption[V]) Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &memoryCache[V]{
		entries: make(map[Key]entry[V]),
		gen:     make(map[Key]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *memoryCache[V]) lookup(key Key) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *memoryCache[V]) GetOrLoad(ctx context.Context, key Key, load Loader[V]) (V, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key.String(), func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		c.mu.RLock()
		startGen := c.gen[key]
		c.mu.RUnlock()

		v, err := load(ctx)
		if err != nil {
			return v, err
		}

		c.mu.Lock()
		if c.gen[key] == startGen {
			c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (c *memoryCache[V]) Invalidate(_ context.Context, key Key) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen[key]++
	c.mu.Unlock()
	c.sf.Forget(key.String())
	return nil
}
