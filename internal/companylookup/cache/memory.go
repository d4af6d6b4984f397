// Package cache stores resolved company names with a TTL.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	name      string
	expiresAt time.Time
}

// MemoryCache keeps names in process. Expired entries are dropped on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, taxID string) (string, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[taxID]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[taxID]; still && current == e {
			delete(c.entries, taxID)
		}
		c.mu.Unlock()
		return "", false, nil
	}
	return e.name, true, nil
}

func (c *MemoryCache) Set(_ context.Context, taxID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[taxID] = entry{name: name, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
