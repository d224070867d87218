// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// document.go provides the Valkey-backed cache of rendered slide documents
// (L2). Keys are a digest of every render input, so an edit produces a miss
// on its own; explicit invalidation only frees memory early.
package cache

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	// documentKeyPrefix is the Valkey key prefix for cached documents.
	documentKeyPrefix = "doc:"

	// DefaultDocumentTTL is how long a rendered document stays cached.
	DefaultDocumentTTL = 10 * time.Minute
)

// DocumentCache manages rendered document caching in Valkey.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocumentCache creates a document cache backed by the given Valkey client.
func NewDocumentCache(client *redis.Client, ttl time.Duration) *DocumentCache {
	if ttl == 0 {
		ttl = DefaultDocumentTTL
	}
	return &DocumentCache{client: client, ttl: ttl}
}

// Key fingerprints render inputs. Parts are length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...[]byte) string {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func documentKey(carousel, key string) string {
	return documentKeyPrefix + carousel + ":" + key
}

// Get retrieves a cached document. Errors count as misses.
func (dc *DocumentCache) Get(ctx context.Context, carousel, key string) ([]byte, bool) {
	val, err := dc.client.Get(ctx, documentKey(carousel, key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("document cache get error", "carousel", carousel, "error", err)
		return nil, false
	}
	slog.Debug("document cache hit", "carousel", carousel)
	return val, true
}

// Set stores a rendered document with the configured TTL.
func (dc *DocumentCache) Set(ctx context.Context, carousel, key string, doc []byte) {
	if err := dc.client.Set(ctx, documentKey(carousel, key), doc, dc.ttl).Err(); err != nil {
		slog.Warn("document cache set error", "carousel", carousel, "error", err)
	}
}

// InvalidateCarousel removes every cached document of a carousel.
func (dc *DocumentCache) InvalidateCarousel(ctx context.Context, carousel string) {
	dc.deletePattern(ctx, documentKeyPrefix+carousel+":*")
	slog.Debug("document cache invalidated", "carousel", carousel)
}

// InvalidateAll removes all cached documents by scanning for the prefix.
// Called at startup, since output depends on the renderer build as well.
func (dc *DocumentCache) InvalidateAll(ctx context.Context) {
	if n := dc.deletePattern(ctx, documentKeyPrefix+"*"); n > 0 {
		slog.Info("document cache fully cleared", "deleted", n)
	}
}

func (dc *DocumentCache) deletePattern(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := dc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("document cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := dc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("document cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted
}
