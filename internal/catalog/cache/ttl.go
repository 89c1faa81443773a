package cache

import (
	"sync"
	"time"
)

// sweepEvery is how many writes pass between sweeps of expired entries.
const sweepEvery = 100

type entry struct {
	data      any
	expiresAt time.Time
}

// ttlCache is a map of values that expire a fixed time after being written.
type ttlCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	writes  int
	now     func() time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string) (any, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !now.After(e.expiresAt) {
		return e.data, true
	}

	// Expired: remove lazily, unless a fresh value replaced it meanwhile.
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, exists := c.entries[key]; exists {
		if c.now().After(cur.expiresAt) {
			delete(c.entries, key)
			return nil, false
		}
		return cur.data, true
	}
	return nil, false
}

func (c *ttlCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.writes++
	if c.writes%sweepEvery == 0 {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = entry{data: value, expiresAt: now.Add(c.ttl)}
}

func (c *ttlCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ttlCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
