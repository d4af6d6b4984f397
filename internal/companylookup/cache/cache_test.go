package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxID = "11222333000181"

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	c := NewMemory(time.Hour, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, ok, err := c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, taxID, "ACME LTDA"))
	name, ok, err := c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ACME LTDA", name)

	now = now.Add(time.Hour)
	_, ok, err = c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedis(client, 30*time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, taxID, "ACME LTDA"))
	assert.Equal(t, 30*time.Minute, mr.TTL(redisKeyPrefix+taxID))

	name, ok, err := c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ACME LTDA", name)

	mr.FastForward(31 * time.Minute)
	_, ok, err = c.Get(ctx, taxID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ReportsConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, _, err := NewRedis(client, time.Minute).Get(context.Background(), taxID)
	assert.Error(t, err)
}
