// Package cache provides a process-local TTL cache and a cache-or-compute helper.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a keyed store whose entries expire after their ttl.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}

// Store is a Cache backed by go-cache. Expired entries are never returned and
// are swept every cleanupInterval.
type Store struct {
	items *gocache.Cache
}

// New creates a Store. defaultTTL is used when Set is called with a zero ttl.
func New(defaultTTL, cleanupInterval time.Duration) *Store {
	return &Store{items: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the value under key if it is present and unexpired.
func (s *Store) Get(key string) (interface{}, bool) {
	return s.items.Get(key)
}

// Set stores value under key for ttl.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.items.Set(key, value, ttl)
}

// Delete drops key.
func (s *Store) Delete(key string) {
	s.items.Delete(key)
}

// GetOrSet returns the value cached under key, or calls compute, caches its
// result for ttl and returns it. Errors from compute are not cached.
// Concurrent misses may both compute; the last Set wins.
func GetOrSet[T any](c Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if cached, ok := c.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
