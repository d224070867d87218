// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"log/slog"
	"sync"
	"time"
)

// cacheKey identifies one rendered document. The key part is a digest of
// everything that went into the render, so an edit to the slide, template
// or brand kit produces a miss on its own.
type cacheKey struct {
	carousel string
	key      string
}

type cacheEntry struct {
	doc     []byte
	expires time.Time
}

// Cache is the L1 in-process cache of rendered documents. It sits in front
// of the shared Valkey cache and is bounded by entry count; when full it is
// cleared rather than evicting one entry at a time. Entries expire after
// the TTL because documents embed signed image URLs.
type Cache struct {
	mu      sync.RWMutex
	max     int
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache holding at most max documents for ttl
// each.
func NewCache(max int, ttl time.Duration) *Cache {
	if max <= 0 {
		max = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{max: max, ttl: ttl, entries: make(map[cacheKey]cacheEntry), now: time.Now}
}

// Get returns a cached document, or nil on a miss.
func (c *Cache) Get(carousel, key string) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey{carousel: carousel, key: key}]
	if !ok || !c.now().Before(e.expires) {
		return nil
	}
	return e.doc
}

// Put stores a rendered document.
func (c *Cache) Put(carousel, key string, doc []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		clear(c.entries)
		slog.Debug("document cache full, cleared", "max", c.max)
	}
	c.entries[cacheKey{carousel: carousel, key: key}] = cacheEntry{doc: doc, expires: c.now().Add(c.ttl)}
}

// Invalidate drops every document of a carousel. Called when one of its
// slides, its template or its brand kit changes.
func (c *Cache) Invalidate(carousel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.carousel == carousel {
			delete(c.entries, k)
		}
	}
	slog.Debug("document cache invalidated", "carousel", carousel)
}

// Len reports the number of cached documents, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
