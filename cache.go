package pagegen

import (
	"sync"
	"time"

	"github.com/eringen/pagegen/content"
)

// PageCache holds the preview batch in memory and regenerates it once the
// TTL has passed or after Invalidate.
type PageCache struct {
	mu       sync.RWMutex
	pages    []*content.Page
	bySlug   map[string]*content.Page
	batchID  string
	fetched  time.Time
	ttl      time.Duration
	generate func() []*content.Page
}

// NewPageCache creates a PageCache filled by generate.
func NewPageCache(generate func() []*content.Page, ttl time.Duration) *PageCache {
	return &PageCache{generate: generate, ttl: ttl}
}

func (c *PageCache) valid() bool {
	return c.pages != nil && (c.ttl <= 0 || time.Since(c.fetched) < c.ttl)
}

// Invalidate clears the cache so the next read generates a fresh batch.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = nil
	c.bySlug = nil
	c.batchID = ""
	c.mu.Unlock()
}

func (c *PageCache) load() {
	if c.valid() {
		return
	}
	pages := c.generate()
	if pages == nil {
		pages = []*content.Page{}
	}
	c.bySlug = make(map[string]*content.Page, len(pages))
	for _, p := range pages {
		c.bySlug[p.Slug] = p
	}
	c.batchID = ""
	if len(pages) > 0 {
		c.batchID = pages[0].Meta.BatchID
	}
	c.pages = pages
	c.fetched = time.Now()
}

// ensureLoaded tries a read lock first; only takes a write lock if a
// regeneration is needed.
func (c *PageCache) ensureLoaded() ([]*content.Page, map[string]*content.Page, string) {
	c.mu.RLock()
	if c.valid() {
		pages, bySlug, id := c.pages, c.bySlug, c.batchID
		c.mu.RUnlock()
		return pages, bySlug, id
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.pages, c.bySlug, c.batchID
}

// Pages returns the current batch and its ID.
func (c *PageCache) Pages() ([]*content.Page, string) {
	pages, _, id := c.ensureLoaded()
	return pages, id
}

// Page returns the page with the given slug from the current batch.
func (c *PageCache) Page(slug string) (*content.Page, error) {
	_, bySlug, _ := c.ensureLoaded()
	if p, ok := bySlug[slug]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}
