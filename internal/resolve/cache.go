package resolve

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCacheTTL bounds how long a resolution result may be served without
// rescanning the candidate pool.
const DefaultCacheTTL = 5 * time.Minute

// Cache memoizes MatchResults keyed by normalized input name. Entries
// expire strictly after their TTL; expiry is lazy (checked on read), no
// background sweep runs. The cache is a pure optimization: clearing it
// never changes resolution output, only latency. It is unaware of store
// writes, so writers must invalidate it themselves.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64

	// now is swappable for deterministic expiry tests.
	now func() time.Time
}

type cacheEntry struct {
	result    MatchResult
	expiresAt time.Time
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewCache creates a cache with the given default TTL; ttl <= 0 falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for key. An expired entry counts as a miss
// and is evicted.
func (c *Cache) Get(key string) (MatchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return MatchResult{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		c.misses.Add(1)
		return MatchResult{}, false
	}

	c.hits.Add(1)
	return entry.result, true
}

// Set stores a result under key with the default TTL.
func (c *Cache) Set(key string, result MatchResult) {
	c.SetWithTTL(key, result, c.ttl)
}

// SetWithTTL stores a result under key, expiring after ttl.
func (c *Cache) SetWithTTL(key string, result MatchResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, expiresAt: c.now().Add(ttl)}
}

// Delete evicts a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear evicts every entry. Called after any write to the company set.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Cleanup sweeps expired entries and returns how many were evicted. Not
// required for correctness, only memory hygiene.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit/miss counters since construction.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries: entries,
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}
