// Package cache holds product detail caches keyed by product ID.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
)

const (
	keyPrefix     = "catalog:product:"
	versionSuffix = ":v"
	versionTTL    = 24 * time.Hour
)

// ProductCache implements the product detail cache on Redis. Entries
// include reviews and expire after the configured TTL.
//
// Every product has a version counter that Invalidate bumps. A fill only
// lands when the counter still holds the version observed by the Get that
// missed, so a read racing a mutation cannot store the pre-mutation copy.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a Redis-backed product cache.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func versionKey(id string) string {
	return keyPrefix + id + versionSuffix
}

// Get returns the cached product, or nil on a miss, together with the
// entry's current version to pass to Set.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, int64, error) {
	vals, err := c.client.MGet(ctx, keyPrefix+id, versionKey(id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis get product: %w", err)
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		return nil, 0, err
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, version, nil
	}
	var p domain.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, version, fmt.Errorf("unmarshal cached product: %w", err)
	}
	return &p, version, nil
}

func parseVersion(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cache version %q: %w", s, err)
	}
	return n, nil
}

// Set stores p under its ID unless the product was invalidated after
// version was read. A skipped write is not an error.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product, version int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	vkey := versionKey(p.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+p.ID, data, c.ttl)
			return nil
		})
		return err
	}, vkey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redis set product: %w", err)
	}
	return nil
}

// Invalidate drops the entry for id and bumps its version. A missing entry
// is not an error.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	vkey := versionKey(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyPrefix+id)
		pipe.Incr(ctx, vkey)
		pipe.Expire(ctx, vkey, versionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate product: %w", err)
	}
	return nil
}

// Nop is a cache that never holds anything. It is used when Redis is
// disabled.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.Product, int64, error) { return nil, 0, nil }
func (Nop) Set(context.Context, *domain.Product, int64) error { return nil }
func (Nop) Invalidate(context.Context, string) error { return nil }
