package cache

import (
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is an in-process BytesCache.
type TTLCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	now func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

// SetBytes stores value; a non-positive ttl never expires. Expired
// entries are swept on every write.
func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.m[key] = entry{v: value, exp: exp}
	return nil
}

// Close drops every entry.
func (c *TTLCache) Close() error {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
