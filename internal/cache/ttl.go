package cache

import (
	"sync"
	"time"
)

// Cache is a process-local key/value cache with per-entry TTL.
// It is a performance aid, not a correctness mechanism. Close releases
// the background sweeper when one was configured.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Invalidate(key K)
	Clear()
	Len() int
	Close()
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type ttlCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	sweepEvery time.Duration
}

// WithSweepInterval enables a background sweep that evicts expired
// entries so the map does not grow unbounded between reads.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepEvery = d }
}

// NewTTLCache returns an in-memory TTL cache. Expired entries are
// dropped lazily on Get and, when a sweep interval is configured,
// by a background goroutine that must be released with Close.
func NewTTLCache[K comparable, V any](opts ...Option) Cache[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &ttlCache[K, V]{
		entries:    make(map[K]entry[V]),
		sweepEvery: o.sweepEvery,
		stop:       make(chan struct{}),
	}
	if c.sweepEvery > 0 {
		go c.sweepLoop()
	}
	return c
}

func (c *ttlCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.Invalidate(key)
		return zero, false
	}
	return e.value, true
}

func (c *ttlCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *ttlCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *ttlCache[K, V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[K]entry[V])
	c.mu.Unlock()
}

func (c *ttlCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep, if any.
func (c *ttlCache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *ttlCache[K, V]) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
