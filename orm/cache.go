package orm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/va6996/tickerdesk/cache"
	"gorm.io/gorm"
)

// APICache stores cached provider responses
type APICache struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"type:bytea"` // raw JSON
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// CacheStore is a cache.Store persisted through gorm
type CacheStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ cache.Store = (*CacheStore)(nil)

// NewCacheStore migrates the cache table and returns a store over db
func NewCacheStore(db *gorm.DB) (*CacheStore, error) {
	if err := db.AutoMigrate(&APICache{}); err != nil {
		return nil, fmt.Errorf("failed to migrate api cache: %w", err)
	}
	return &CacheStore{db: db, now: time.Now}, nil
}

// Get returns a value that has not expired yet
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, err := GetCacheEntry(s.db.WithContext(ctx), key, s.now())
	if err != nil {
		return nil, false
	}
	return entry.Value, true
}

// Set upserts a value with a TTL
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return SetCacheEntry(s.db.WithContext(ctx), key, value, s.now(), ttl)
}

// Cleanup removes expired entries
func (s *CacheStore) Cleanup(ctx context.Context) error {
	return CleanupCache(s.db.WithContext(ctx), s.now())
}

// GetCacheEntry retrieves a cache entry valid at now
func GetCacheEntry(db *gorm.DB, key string, now time.Time) (*APICache, error) {
	var entry APICache
	err := db.Where("key = ? AND expires_at > ?", key, now).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return &entry, nil
}

// SetCacheEntry upserts a cache entry
func SetCacheEntry(db *gorm.DB, key string, value []byte, now time.Time, ttl time.Duration) error {
	entry := APICache{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return db.Save(&entry).Error
}

// CleanupCache removes entries expired at now
func CleanupCache(db *gorm.DB, now time.Time) error {
	return db.Where("expires_at <= ?", now).Delete(&APICache{}).Error
}
