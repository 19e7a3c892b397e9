package searchcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/storytellerz/backend/internal/domain"
)

// cacheItem represents a single cached search response with expiration
type cacheItem struct {
	result     *domain.WebSearchResult
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache for web search
// responses with TTL support. Keys are case-folded queries so "Decor"
// and "decor" share one entry.
type MemoryCache struct {
	data  map[string]cacheItem
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory search cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		ttl:  ttl,
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get retrieves a cached response for the query.
func (c *MemoryCache) Get(ctx context.Context, query string) (*domain.WebSearchResult, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[cacheKey(query)]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiration) {
		return nil, false
	}
	return item.result, true
}

// Set stores a response under the query.
func (c *MemoryCache) Set(ctx context.Context, query string, result *domain.WebSearchResult) {
	if result == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[cacheKey(query)] = cacheItem{
		result:     result,
		expiration: time.Now().Add(c.ttl),
	}
}

// Size returns the current number of cached queries (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
