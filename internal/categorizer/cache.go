package categorizer

import (
	"strings"
	"sync"
	"time"

	"fjacquet/statement-import/internal/models"
)

// DefaultCacheTTL is how long an AI answer is reused.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type cacheEntry struct {
	category string
	storedAt time.Time
}

// Cache remembers AI categorizations per (direction, description). It is
// shared by all imports of the process. Expired entries are evicted when
// read.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]cacheEntry

	hits   int
	misses int
}

// NewCache returns an empty cache. Zero ttl means DefaultCacheTTL and a nil
// clock means time.Now.
func NewCache(ttl time.Duration, now Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// CacheKey normalizes the lookup key: direction plus the lower-cased,
// trimmed description.
func CacheKey(direction models.Direction, description string) string {
	return string(direction) + "|" + strings.ToLower(strings.TrimSpace(description))
}

// Get returns the cached category, evicting it when older than the TTL.
func (c *Cache) Get(direction models.Direction, description string) (string, bool) {
	key := CacheKey(direction, description)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	return entry.category, true
}

// Put stores category, replacing any previous entry.
func (c *Cache) Put(direction models.Direction, description, category string) {
	key := CacheKey(direction, description)
	c.mu.Lock()
	c.entries[key] = cacheEntry{category: category, storedAt: c.now()}
	c.mu.Unlock()
}

// Reset drops every entry and the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.hits, c.misses = 0, 0
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
