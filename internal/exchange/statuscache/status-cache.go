// Package statuscache is a time-bounded cache of gateway status lookups. It
// shields the gateway from excessive polling and keeps a stale-but-usable
// answer around for the oracle's degraded fallback.
package statuscache

import (
	"sync"
	"time"
)

type entry struct {
	status    string
	fetchedAt time.Time
}

type Cache struct {
	mux     *sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		mux:     &sync.Mutex{},
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get reports the cached status for key. fresh is true while the entry is
// younger than one TTL; between one and two TTLs the entry is still returned
// (ok, not fresh) as a degraded fallback; afterwards it is a miss.
func (c *Cache) Get(key string) (status string, fresh bool, ok bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	e, exists := c.entries[key]
	if !exists {
		return "", false, false
	}
	age := c.now().Sub(e.fetchedAt)
	if age >= 2*c.ttl {
		delete(c.entries, key)
		return "", false, false
	}
	return e.status, age < c.ttl, true
}

func (c *Cache) Put(key, status string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.entries[key] = entry{status: status, fetchedAt: c.now()}
}

// Evict drops one entry, forcing the next lookup to hit the gateway.
func (c *Cache) Evict(key string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	delete(c.entries, key)
}

// Sweep removes entries two TTLs old or older. There is no background
// scheduler in the engine; callers run Sweep before a status check so cache
// hygiene piggybacks on request traffic.
func (c *Cache) Sweep() {
	c.mux.Lock()
	defer c.mux.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.fetchedAt) >= 2*c.ttl {
			delete(c.entries, key)
		}
	}
}
