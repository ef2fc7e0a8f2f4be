package repository

import (
	"context"
	"testing"
	"time"

	"cnapi/config"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTierCache(t *testing.T) (*TierCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	conf := &config.Configuration{}
	conf.Redis.TierCacheTTL = time.Minute
	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)

	return NewTierCacheRepository(trace, client.NewRedisClientFrom(zap.NewNop(), redisClient), conf), server
}

func TestTierCacheRoundTrip(t *testing.T) {
	cache, server := newTestTierCache(t)
	ctx := context.Background()

	tier, hit, err := cache.Get(ctx, "basic")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, tier)

	require.NoError(t, cache.Set(ctx, &model.BillingTier{TierName: "basic", MonthlyCallLimit: 1000}))
	assert.True(t, server.Exists("cnapi:billing_tier:basic"))
	assert.Equal(t, time.Minute, server.TTL("cnapi:billing_tier:basic"))

	tier, hit, err = cache.Get(ctx, "basic")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(1000), tier.MonthlyCallLimit)

	require.NoError(t, cache.Delete(ctx, "basic"))
	_, hit, err = cache.Get(ctx, "basic")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestTierCacheExpires(t *testing.T) {
	cache, server := newTestTierCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &model.BillingTier{TierName: "enterprise", MonthlyCallLimit: 100000}))
	server.FastForward(2 * time.Minute)

	_, hit, err := cache.Get(ctx, "enterprise")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestTierCacheCorruptEntryIsMiss(t *testing.T) {
	cache, server := newTestTierCache(t)
	require.NoError(t, server.Set("cnapi:billing_tier:basic", "{not json"))

	_, hit, err := cache.Get(context.Background(), "basic")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, server.Exists("cnapi:billing_tier:basic"))
}

func TestTierCacheDisabled(t *testing.T) {
	conf := &config.Configuration{}
	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	cache := NewTierCacheRepository(trace, &client.RedisClient{}, conf)

	_, hit, err := cache.Get(context.Background(), "basic")
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Set(context.Background(), &model.BillingTier{TierName: "basic"}))
	assert.NoError(t, cache.Delete(context.Background(), "basic"))
}

func TestTierCacheUnavailable(t *testing.T) {
	cache, server := newTestTierCache(t)
	server.Close()

	_, hit, err := cache.Get(context.Background(), "basic")
	assert.Error(t, err)
	assert.False(t, hit)
}
