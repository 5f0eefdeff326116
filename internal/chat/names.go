package chat

import "sync"

// NameCache maps user IDs to display names. It belongs to the adapter
// layer and is injected into the engine per session rather than living
// as package state.
type NameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameCache returns an empty cache.
func NewNameCache() *NameCache {
	return &NameCache{names: make(map[string]string)}
}

// Put records the display name for an ID.
func (c *NameCache) Put(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = name
}

// Get returns the cached name for an ID.
func (c *NameCache) Get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// IDForName returns the ID cached for a display name. Names are not
// guaranteed unique; the first match wins.
func (c *NameCache) IDForName(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, n := range c.names {
		if n == name {
			return id, true
		}
	}
	return "", false
}
