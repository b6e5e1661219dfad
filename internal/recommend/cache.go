// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"fmt"
	"sync"
	"time"
)

// Cache memoizes ranked lists per (anchor item, algorithm, size) for a
// bounded time. Expiry is checked on read; a periodic sweep removes stale
// entries. Any recorded interaction clears the whole cache: recommendation
// quality depends on fresh profile state, so correctness wins over hit rate.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	items   []RankedItem
	created time.Time
}

// NewCache creates a cache with the given TTL. A nil clock defaults to
// time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// CacheKey builds the lookup key for a request context.
func CacheKey(userID, anchorItemID, algorithm string, size int) string {
	return fmt.Sprintf("rec:%s:%s:%s:%d", userID, anchorItemID, algorithm, size)
}

// Get returns the cached list for a key, or false when absent or expired.
func (c *Cache) Get(key string) ([]RankedItem, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.created) > c.ttl {
		return nil, false
	}

	out := make([]RankedItem, len(entry.items))
	copy(out, entry.items)
	return out, true
}

// Put stores a ranked list under a key.
func (c *Cache) Put(key string, items []RankedItem) {
	stored := make([]RankedItem, len(items))
	copy(stored, items)

	c.mu.Lock()
	c.entries[key] = cacheEntry{items: stored, created: c.now()}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, entry := range c.entries {
		if now.Sub(entry.created) > c.ttl {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
