// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	// keyPrefix namespaces every response cache key in Valkey.
	keyPrefix = "cache:"

	// DefaultTTL is how long a cached response lives.
	DefaultTTL = 5 * time.Minute
)

// Key families. Invalidating a prefix drops every key built from it.
const (
	PrefixCategories  = "categories:"
	PrefixPublicPosts = "posts:public:"
)

// CategoryTreeKey caches the full category tree.
const CategoryTreeKey = PrefixCategories + "tree"

// PublicPostKey returns the key for a single published post.
func PublicPostKey(slug string) string {
	return PrefixPublicPosts + "slug:" + slug
}

// PublicListKey returns the key for one page of the public post list.
// query must be a canonical encoding of the list parameters.
func PublicListKey(query string) string {
	return PrefixPublicPosts + "list:" + query
}

// Stats counts cache traffic since start.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Errors uint64 `json:"errors"`
}

// Cache stores JSON-encoded values in Valkey. Read errors are logged and
// treated as misses so a cache outage never fails a request. A nil *Cache
// is valid and caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group

	hits, misses, failures atomic.Uint64
}

// New creates a response cache backed by the given Valkey client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// TTL returns the expiry applied to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Errors: c.failures.Load()}
}

// Get decodes the cached value for key into dst. It reports whether the
// key was present.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return false
	}
	if err != nil {
		c.failures.Add(1)
		slog.Warn("cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.failures.Add(1)
		slog.Warn("cache decode error", "key", key, "error", err)
		return false
	}
	c.hits.Add(1)
	slog.Debug("cache hit", "key", key)
	return true
}

// Set stores v under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.failures.Add(1)
		slog.Warn("cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.failures.Add(1)
		slog.Warn("cache set error", "key", key, "error", err)
	}
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("cache delete error", "keys", keys, "error", err)
	}
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were deleted.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) int {
	if c == nil {
		return 0
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("cache scan error", "prefix", prefix, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache bulk delete error", "prefix", prefix, "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("cache prefix invalidated", "prefix", prefix, "deleted", deleted)
	}
	return deleted
}

// Fetch returns the cached value for key, or calls load, caches its
// result and returns it. Concurrent misses for the same key share one
// load. Load errors are returned and never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	// The shared load must outlive any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		val, err := load(shared)
		if err != nil {
			return nil, err
		}
		c.Set(shared, key, val)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache fetch %s: unexpected type %T", key, v)
	}
	return out, nil
}
