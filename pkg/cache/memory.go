package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process memory, bounded by entry count.
// When full, the entry stored first is evicted; reads do not refresh an
// entry. Expired entries are dropped when read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	max     int
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	storedAt  time.Time
}

// NewMemoryCache creates an in-memory cache holding at most max entries.
// max <= 0 means 256.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = 256
	}
	return &MemoryCache{entries: make(map[string]memoryEntry), max: max}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	e := memoryEntry{data: append([]byte(nil), data...), storedAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evict()
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evict() {
	var victim string
	var oldest time.Time
	for k, e := range c.entries {
		if victim == "" || e.storedAt.Before(oldest) {
			victim, oldest = k, e.storedAt
		}
	}
	delete(c.entries, victim)
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close does nothing for memory cache.
func (c *MemoryCache) Close() error { return nil }

var _ Cache = (*MemoryCache)(nil)
