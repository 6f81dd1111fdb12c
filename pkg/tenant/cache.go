package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores dynamic registry lookups between requests.
type Cache interface {
	// Get retrieves a cached tenant by slug.
	Get(ctx context.Context, slug string) (*Tenant, bool)

	// Set stores a tenant under the slug for the given TTL.
	Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration)

	// Delete removes a cached tenant.
	Delete(ctx context.Context, slug string)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default capacity of the in-memory cache.
const DefaultCacheSize = 1000

type memoryCacheEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// memoryCache is a bounded in-memory cache with TTL expiry and LRU
// eviction, cleaned up by a background janitor.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	order   []string // oldest first
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewMemoryCache creates an in-memory cache with the default capacity.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory cache with the given capacity.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &memoryCache{
		entries: make(map[string]memoryCacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *memoryCache) Get(ctx context.Context, slug string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[slug]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, slug)
		c.dequeue(slug)
		return nil, false
	}
	c.touch(slug)
	return entry.tenant, true
}

func (c *memoryCache) Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration) {
	if t == nil || ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[slug]; !exists && len(c.entries) >= c.maxSize {
		if len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.entries[slug] = memoryCacheEntry{tenant: t, expiresAt: time.Now().Add(ttl)}
	c.touch(slug)
}

func (c *memoryCache) Delete(ctx context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, slug)
	c.dequeue(slug)
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.expire()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for slug, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, slug)
			c.dequeue(slug)
		}
	}
}

func (c *memoryCache) touch(slug string) {
	c.dequeue(slug)
	c.order = append(c.order, slug)
}

func (c *memoryCache) dequeue(slug string) {
	for i, s := range c.order {
		if s == slug {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// noopCache disables caching; every lookup goes to the provider.
type noopCache struct{}

// NewNoopCache creates a cache that never stores anything.
func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(context.Context, string) (*Tenant, bool)         { return nil, false }
func (noopCache) Set(context.Context, string, *Tenant, time.Duration) {}
func (noopCache) Delete(context.Context, string)                      {}
func (noopCache) Close() error                                        { return nil }
