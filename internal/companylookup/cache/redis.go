package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "painel:company_name:"

// RedisCache shares resolved names between server instances. Redis evicts
// entries when the TTL runs out.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, taxID string) (string, bool, error) {
	name, err := c.client.Get(ctx, redisKeyPrefix+taxID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read company name cache: %w", err)
	}
	return name, true, nil
}

func (c *RedisCache) Set(ctx context.Context, taxID, name string) error {
	if err := c.client.Set(ctx, redisKeyPrefix+taxID, name, c.ttl).Err(); err != nil {
		return fmt.Errorf("write company name cache: %w", err)
	}
	return nil
}
