package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"NewsAgent/internal/domain"
)

// DefaultCapacity matches the number of pages a single process usually revisits.
const DefaultCapacity = 128

// ContentCache keeps successfully extracted articles keyed by normalized URL.
// Eviction is strictly least-recently-used and lookups through Get count as access.
// The underlying lru.Cache is synchronized, so concurrent pipelines may share one instance.
type ContentCache struct {
	entries  *lru.Cache[string, domain.ArticleContent]
	capacity int
}

// New builds a cache holding at most capacity entries.
func New(capacity int) (*ContentCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	entries, err := lru.New[string, domain.ArticleContent](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &ContentCache{entries: entries, capacity: capacity}, nil
}

// Get returns the cached content and marks the key as most recently used.
func (c *ContentCache) Get(key string) (domain.ArticleContent, bool) {
	return c.entries.Get(key)
}

// Peek returns the cached content without touching recency.
func (c *ContentCache) Peek(key string) (domain.ArticleContent, bool) {
	return c.entries.Peek(key)
}

// Put stores content, evicting the least recently used entry when full.
// It reports whether an eviction happened.
func (c *ContentCache) Put(key string, content domain.ArticleContent) bool {
	return c.entries.Add(key, content)
}

// Len reports the number of cached entries.
func (c *ContentCache) Len() int {
	return c.entries.Len()
}

// Capacity reports the fixed size chosen at construction.
func (c *ContentCache) Capacity() int {
	return c.capacity
}

// Reset drops every entry.
func (c *ContentCache) Reset() {
	c.entries.Purge()
}
