package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// CachePrefix prefixes the key of every cache entry.
	CachePrefix = "cache:"
	// DefaultCacheTTL applies when Put is called without a ttl.
	DefaultCacheTTL = 30 * time.Minute
)

// cacheEntry is the stored shape of a cached value. Times are Unix milliseconds.
type cacheEntry struct {
	Data       json.RawMessage `json:"data"`
	Timestamp  int64           `json:"timestamp"`
	Expiration int64           `json:"expiration"`
}

// Cache keeps short-lived copies of remote data next to the collections.
type Cache struct {
	store *Store
}

// Cache returns the expiring-entry view of the store.
func (s *Store) Cache() *Cache {
	return &Cache{store: s}
}

// Put stores data under key for ttl. A non-positive ttl means DefaultCacheTTL.
func (c *Cache) Put(ctx context.Context, key string, data any, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidNamespace
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}
	now := c.store.clock()
	entry := cacheEntry{
		Data:       raw,
		Timestamp:  now.UnixMilli(),
		Expiration: now.Add(ttl).UnixMilli(),
	}
	return c.store.write(ctx, CachePrefix+key, entry)
}

// Fetch decodes the entry stored under key into out.
// It reports false when the entry is missing or expired; expired entries are
// removed when the medium supports it.
func (c *Cache) Fetch(ctx context.Context, key string, out any) (bool, error) {
	if key == "" {
		return false, ErrInvalidNamespace
	}
	full := CachePrefix + key
	raw, found, err := c.store.read(ctx, full)
	if err != nil || !found {
		return false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return false, corrupt(full, err)
	}

	if c.store.clock().UnixMilli() > entry.Expiration {
		if err := c.store.remove(ctx, full); err != nil && !errors.Is(err, ErrUnsupported) {
			return false, err
		}
		return false, nil
	}

	if out != nil && len(entry.Data) > 0 {
		if err := json.Unmarshal(entry.Data, out); err != nil {
			return false, fmt.Errorf("failed to decode cache entry %q: %w", key, err)
		}
	}
	return true, nil
}
