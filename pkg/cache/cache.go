// Package cache keeps public catalog reads (settings, categories, products)
// in Redis. A Cache without a client is a valid no-op, so the API works the
// same with or without REDIS_ADDR.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sadekstore/storefront/config"
	"github.com/sadekstore/storefront/pkg/metrics"
)

// Catalog keys. Every catalog write invalidates all of them.
const (
	KeySettings   = "storefront:catalog:settings"
	KeyCategories = "storefront:catalog:categories"
	KeyProducts   = "storefront:catalog:products"
)

// KeyGeneration is bumped by every Flush. Remember only writes back a value
// loaded under the current generation.
const KeyGeneration = "storefront:catalog:generation"

// CatalogKeys lists every key Flush removes.
var CatalogKeys = []string{KeySettings, KeyCategories, KeyProducts}

// ErrStale is returned by SetIfCurrent when a Flush happened after the
// generation was read.
var ErrStale = errors.New("cache: catalog flushed since load")

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps an existing client. A nil client disables caching.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Disabled returns a Cache that never hits.
func Disabled() *Cache { return &Cache{} }

// Connect dials REDIS_ADDR and verifies the connection with a ping.
// Returns an error so the caller can react (log warning, fall back, or abort).
func Connect(ctx context.Context) (*Cache, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return Disabled(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return Disabled(), fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return New(rdb, config.CacheTTL()), nil
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Generation returns the current flush generation. A missing key reads as 0.
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	n, err := c.rdb.Get(ctx, KeyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// SetIfCurrent stores value under key unless the generation moved past gen.
// The check and the write run in one WATCH transaction, so a Flush racing
// with it either lands first (ErrStale) or deletes the fresh write.
func (c *Cache) SetIfCurrent(ctx context.Context, key string, value interface{}, gen int64) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		now, err := tx.Get(ctx, KeyGeneration).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if now != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, KeyGeneration)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Flush bumps the generation and removes every catalog key.
func (c *Cache) Flush(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, KeyGeneration)
		pipe.Del(ctx, CatalogKeys...)
		return nil
	})
	return err
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Remember returns the cached value for key, or calls load, caches its
// result and returns it. Cache failures never fail the read. A value loaded
// before a concurrent Flush is returned but not cached.
func Remember[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	if !c.Enabled() {
		return load()
	}

	gen, genErr := c.Generation(ctx)

	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if genErr == nil {
		_ = c.SetIfCurrent(ctx, key, v, gen)
	}
	return v, nil
}
