// Package imagecache keeps recently fetched artwork bytes in memory so bulk
// polling runs do not refetch the same covers.
package imagecache

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity bounds the number of cached images.
	DefaultCapacity = 128

	// DefaultTTL is how long an entry stays valid.
	DefaultTTL = time.Hour
)

type entry struct {
	data     []byte
	storedAt time.Time
}

// Cache is a bounded TTL cache keyed by URL. When full, an arbitrary entry
// is evicted.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// New creates a cache. Non-positive capacity or ttl fall back to defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		entries:  make(map[string]entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached bytes for a URL, or false when absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, url)
		return nil, false
	}
	return e.data, true
}

// Put stores bytes for a URL, evicting one arbitrary entry when at capacity.
func (c *Cache) Put(url string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.capacity {
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}

	c.entries[url] = entry{data: data, storedAt: c.now()}
}

// Len reports the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
