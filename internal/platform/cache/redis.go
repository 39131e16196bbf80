package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// New creates a new Redis client and pings it.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// JSONCache stores JSON-encoded values under a key prefix. Concurrent misses
// for the same key share one loader call. Entries are namespaced by a
// generation counter that Invalidate bumps, so a loader that started before
// an invalidation writes under a generation no reader asks for.
type JSONCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewJSONCache builds a JSONCache. A nil client disables caching.
func NewJSONCache(client *redis.Client, prefix string, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, prefix: prefix, ttl: ttl}
}

// Fetch returns the cached value for key, calling load on a miss.
func Fetch[T any](ctx context.Context, c *JSONCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return load(ctx)
	}
	full := c.prefix + "g" + strconv.FormatInt(gen, 10) + ":" + key
	if raw, err := c.client.Get(ctx, full).Bytes(); err == nil {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return load(ctx)
	}

	v, err, _ := c.group.Do(full, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(val); err == nil {
			_ = c.client.Set(ctx, full, data, c.ttl).Err()
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *JSONCache) generationKey() string {
	return c.prefix + "generation"
}

func (c *JSONCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Invalidate moves the cache to a new generation and removes the entries of
// earlier ones.
func (c *JSONCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return err
	}
	iter := c.client.Scan(ctx, 0, c.prefix+"g*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if iter.Val() == c.generationKey() {
			continue
		}
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
