package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

type cacheEntry struct {
	longURL   string
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of shortener.Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[shortener.Code]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[shortener.Code]cacheEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, code shortener.Code) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[code]
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, code)

		return "", shortener.ErrCacheMiss
	}

	return entry.longURL, nil
}

func (c *MemoryCache) Set(_ context.Context, code shortener.Code, longURL string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = shortener.DefaultCacheTTL
	}

	entry := cacheEntry{longURL: longURL, expiresAt: c.now().Add(ttl)}

	c.entries[code] = entry

	return nil
}

// Evict drops the entry for code, if any.
func (c *MemoryCache) Evict(code shortener.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, code)
}

// Compile-time check.
var _ shortener.Cache = (*MemoryCache)(nil)
