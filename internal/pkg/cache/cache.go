// Package cache provides a small TTL cache keyed by canonicalized call
// parameters. It makes the memoization around external calls an explicit
// component: entries are queried before every external call, populated after
// a successful one, and expire purely by age. Expiry is checked on read;
// there is no background sweeper.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a concurrency-safe TTL cache for values of type T.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries live for ttl after insertion.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key canonicalizes an operation name and its parameter tuple into a cache
// key. Credentials belong in the tuple: results fetched with different keys
// must never be shared.
func Key(op string, params ...string) string {
	return op + "|" + strings.Join(params, "|")
}

// Get returns the cached value for key if present and not expired.
// Expired entries are removed on access.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of entries currently stored, including any that
// have expired but not yet been evicted by a read.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
