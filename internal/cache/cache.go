// Package cache is a small in-process query cache keyed by
// (resource, key) tuples with invalidate-on-mutation semantics.
package cache

import (
	"sync"
)

// Key identifies a cached query result
type Key struct {
	Resource string // e.g. "transfers", "upis"
	ID       string // dependent key, e.g. the selected account number
}

type Cache struct {
	entries map[Key]any
	sync.Mutex
}

func New() *Cache {
	return &Cache{
		entries: make(map[Key]any),
	}
}

// Get returns the cached value for key, if any
func (c *Cache) Get(key Key) (any, bool) {
	c.Lock()
	defer c.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a query result
func (c *Cache) Set(key Key, value any) {
	c.Lock()
	defer c.Unlock()
	c.entries[key] = value
}

// Invalidate drops a single entry so the next read refetches
func (c *Cache) Invalidate(key Key) {
	c.Lock()
	defer c.Unlock()
	delete(c.entries, key)
}

// InvalidateResource drops every entry for a resource regardless of key
func (c *Cache) InvalidateResource(resource string) {
	c.Lock()
	defer c.Unlock()
	for k := range c.entries {
		if k.Resource == resource {
			delete(c.entries, k)
		}
	}
}
