// Package memo memoizes expensive upstream reads with a per-operation
// time-to-live and shares in-flight calls between identical requests.
package memo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Func is the operation wrapped by a Cache.
type Func[K, V any] func(ctx context.Context, key K) (V, error)

// Config configures a Cache.
type Config struct {
	// Name labels the cache in metrics and logs.
	Name string
	// TTL is how long a successful result is served from the cache.
	TTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
	// Metrics is optional.
	Metrics *Metrics
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache memoizes a Func by key. Successful results are kept for the TTL and
// evicted lazily on the next read after expiry; errors are never stored.
// Concurrent misses for the same key share a single call.
type Cache[K, V any] struct {
	name    string
	ttl     time.Duration
	fn      Func[K, V]
	keyFunc func(K) string
	now     func() time.Time
	metrics *Metrics

	mu      sync.Mutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// New wraps fn in a cache.
func New[K, V any](cfg Config, fn Func[K, V]) *Cache[K, V] {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Cache[K, V]{
		name:    cfg.Name,
		ttl:     cfg.TTL,
		fn:      fn,
		keyFunc: func(key K) string { return fmt.Sprint(key) },
		now:     now,
		metrics: cfg.Metrics,
		entries: make(map[string]entry[V]),
	}
}

// WithKeyFunc sets how keys are serialized. The default is fmt.Sprint.
func (c *Cache[K, V]) WithKeyFunc(keyFunc func(K) string) *Cache[K, V] {
	c.keyFunc = keyFunc
	return c
}

// Get returns the cached value for key, calling the wrapped Func on a miss.
// The shared call is detached from the caller's cancellation so one caller
// giving up does not fail the others waiting on it.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	k := c.keyFunc(key)
	if v, ok := c.lookup(k); ok {
		c.metrics.hit(c.name)
		return v, nil
	}
	c.metrics.miss(c.name)

	res, err, _ := c.group.Do(k, func() (any, error) {
		// a flight that finished between lookup and Do already stored it
		if v, ok := c.lookup(k); ok {
			return v, nil
		}

		start := time.Now()
		v, err := c.fn(context.WithoutCancel(ctx), key)
		c.metrics.observe(c.name, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[k] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) lookup(k string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, k)
		var zero V
		return zero, false
	}
	return e.value, true
}
