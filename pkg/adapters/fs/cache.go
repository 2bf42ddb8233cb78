package fs

import (
	"sync"
	"time"
)

// cacheEntry is the last content read or written for one key.
type cacheEntry struct {
	Value   string
	ModTime time.Time
	Size    int64
}

// cache avoids re-reading namespace files that did not change on disk.
// Freshness is decided by modification time and size.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached value if it is still fresh for the given file stats.
func (c *cache) Get(key string, modTime time.Time, size int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.ModTime.Equal(modTime) || entry.Size != size {
		c.misses++
		return "", false
	}
	c.hits++
	return entry.Value, true
}

// Set updates an entry in the cache.
func (c *cache) Set(key string, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
