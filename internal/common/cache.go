package common

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache is a TTL cache of rendered lookup results, cleared whenever the index is replaced.
type Cache struct {
	store *ttlcache.Cache[string, string]
}

// NewCache creates a cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		store: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Start runs expiry cleanup until Stop is called.
func (c *Cache) Start() { go c.store.Start() }

// Stop ends expiry cleanup.
func (c *Cache) Stop() { c.store.Stop() }

// Set adds a new entry to the cache.
func (c *Cache) Set(key, value string) {
	c.store.Set(key, value, ttlcache.DefaultTTL)
}

// Get retrieves an unexpired entry from the cache.
func (c *Cache) Get(key string) (string, bool) {
	item := c.store.Get(key)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// Purge drops every entry.
func (c *Cache) Purge() { c.store.DeleteAll() }

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.store.Len() }
