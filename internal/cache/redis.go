package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dtroode/miniapp-server/internal/model"
)

// redisAPI is the subset of *redis.Client used by Redis.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ model.Cache = (*Redis)(nil)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	api    redisAPI
	prefix string
}

// NewRedis creates a Redis cache using client. Keys are namespaced by prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return NewRedisWithAPI(client, prefix)
}

// NewRedisWithAPI allows injecting a mockable API (used in tests).
func NewRedisWithAPI(api redisAPI, prefix string) *Redis {
	return &Redis{api: api, prefix: prefix}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.api.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache key: %w", err)
	}
	return value, nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.api.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.prefix + key
	}
	if err := c.api.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}
