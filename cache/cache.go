// Package cache provides TTL key/value stores for fetched provider responses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store is a TTL cache of raw response bytes
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MemoryStore is a basic thread-safe in-memory cache
type MemoryStore struct {
	data map[string]cacheItem
	mu   sync.RWMutex
	now  func() time.Time
}

type cacheItem struct {
	value      []byte
	expiryTime time.Time
}

// NewMemoryStore creates a new cache instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
}

// Get retrieves a value from the cache
func (c *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.data[key]
	if !found || !c.now().Before(item.expiryTime) {
		return nil, false
	}
	return item.value, true
}

// Set adds a value to the cache with a TTL
func (c *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheItem{
		value:      value,
		expiryTime: c.now().Add(ttl),
	}
	return nil
}

// Cleaner is a Store that can drop its expired entries
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// Cleanup drops expired entries
func (c *MemoryStore) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, item := range c.data {
		if !now.Before(item.expiryTime) {
			delete(c.data, key)
		}
	}
	return nil
}

// Cleanup drops expired entries from s when it supports it
func Cleanup(ctx context.Context, s Store) error {
	c, ok := s.(Cleaner)
	if !ok {
		return nil
	}
	return c.Cleanup(ctx)
}

// Key creates a unique key for caching based on inputs
func Key(prefix string, params ...interface{}) string {
	return fmt.Sprintf("%s:%v", prefix, params)
}

// GetJSON decodes a cached JSON value into out. A decode failure counts as a miss.
func GetJSON(ctx context.Context, s Store, key string, out interface{}) bool {
	if s == nil {
		return false
	}
	b, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// SetJSON encodes value and stores it under key
func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	if s == nil || ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return s.Set(ctx, key, b, ttl)
}
