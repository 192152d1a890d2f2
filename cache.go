package flaglite

import (
	"sync"
	"time"
)

// cacheKey identifies one cached decision. An empty userID is its own cache
// partition, distinct from every concrete user ID; it is not a wildcard.
type cacheKey struct {
	flagKey string
	userID  string
}

// cacheEntry is one cached flag decision. Entries are replaced wholesale on
// update, never mutated in place.
type cacheEntry struct {
	value     bool
	expiresAt time.Time
}

// TTLCache caches boolean flag decisions keyed by (flag key, user ID) with a
// fixed time-to-live. Expired entries are removed lazily when read; there is
// no background sweeper. [TTLCache.CleanupExpired] is available for callers
// who want proactive reclamation.
//
// Get and Set exist in two forms: the plain form serializes all access behind
// an internal mutex and is safe for concurrent use; the Unlocked form skips
// the mutex and is only valid for a strictly single-goroutine caller. Mixing
// the two forms against the same instance while concurrent callers are active
// is a data race.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
}

// NewTTLCache creates a cache whose entries expire ttl after they are set.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// TTL returns the configured time-to-live.
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the live cached value for (flagKey, userID). The second return
// value is false when no entry exists or the entry has expired; an expired
// entry is removed as a side effect.
func (c *TTLCache) Get(flagKey, userID string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(flagKey, userID)
}

// GetUnlocked is [TTLCache.Get] without locking, for single-goroutine
// callers only.
func (c *TTLCache) GetUnlocked(flagKey, userID string) (bool, bool) {
	return c.lookup(flagKey, userID)
}

// Set inserts or replaces the entry for (flagKey, userID) with expiry
// now + TTL. Last write wins under concurrent writers to the same key.
func (c *TTLCache) Set(flagKey string, value bool, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(flagKey, value, userID)
}

// SetUnlocked is [TTLCache.Set] without locking, for single-goroutine
// callers only.
func (c *TTLCache) SetUnlocked(flagKey string, value bool, userID string) {
	c.store(flagKey, value, userID)
}

// Invalidate removes the entry for the exact (flagKey, userID) pair if
// present. Entries for the same flag key with other user IDs are untouched.
func (c *TTLCache) Invalidate(flagKey, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{flagKey: flagKey, userID: userID})
}

// InvalidateUnlocked is [TTLCache.Invalidate] without locking, for
// single-goroutine callers only.
func (c *TTLCache) InvalidateUnlocked(flagKey, userID string) {
	delete(c.entries, cacheKey{flagKey: flagKey, userID: userID})
}

// Clear removes all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// ClearUnlocked is [TTLCache.Clear] without locking, for single-goroutine
// callers only.
func (c *TTLCache) ClearUnlocked() {
	c.entries = make(map[cacheKey]cacheEntry)
}

// CleanupExpired removes every entry that has expired at call time and
// returns the number removed.
func (c *TTLCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep()
}

// CleanupExpiredUnlocked is [TTLCache.CleanupExpired] without locking, for
// single-goroutine callers only.
func (c *TTLCache) CleanupExpiredUnlocked() int {
	return c.sweep()
}

// sweep implements CleanupExpired for both locking forms.
func (c *TTLCache) sweep() int {
	now := time.Now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// lookup implements Get for both locking forms. The caller holds the mutex
// in the locked form.
func (c *TTLCache) lookup(flagKey, userID string) (bool, bool) {
	key := cacheKey{flagKey: flagKey, userID: userID}
	entry, ok := c.entries[key]
	if !ok {
		return false, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return false, false
	}
	return entry.value, true
}

// store implements Set for both locking forms.
func (c *TTLCache) store(flagKey string, value bool, userID string) {
	c.entries[cacheKey{flagKey: flagKey, userID: userID}] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}
