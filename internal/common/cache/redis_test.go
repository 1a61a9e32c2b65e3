package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"artvaluation-workers/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProjection struct {
	Payback  int       `json:"payback"`
	Revenues []float64 `json:"revenues"`
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestResultCache_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewResultCache(client, "valuation:project-cash-flow", time.Minute)
	ctx := context.Background()

	key, err := c.Key(map[string]float64{"basePrice": 30}, 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "valuation:project-cash-flow:"))

	var got cachedProjection
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := cachedProjection{Payback: 4, Revenues: []float64{20.16, 22.5792}}
	require.NoError(t, c.Set(ctx, key, want))

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResultCache_KeyIsDeterministic(t *testing.T) {
	c := NewResultCache(nil, "p", 0)

	k1, err := c.Key(map[string]interface{}{"b": 1, "a": 2}, "x")
	require.NoError(t, err)
	k2, err := c.Key(map[string]interface{}{"a": 2, "b": 1}, "x")
	require.NoError(t, err)
	k3, err := c.Key(map[string]interface{}{"a": 2, "b": 1}, "y")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestResultCache_Disabled(t *testing.T) {
	var nilCache *ResultCache
	assert.False(t, nilCache.Enabled())

	c := NewResultCache(nil, "p", time.Minute)
	assert.False(t, c.Enabled())

	var dest cachedProjection
	hit, err := c.Get(context.Background(), "p:k", &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(context.Background(), "p:k", dest))
}

func TestResultCache_CorruptEntry(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewResultCache(client, "p", time.Minute)
	require.NoError(t, mr.Set("p:bad", "{not json"))

	var dest cachedProjection
	hit, err := c.Get(context.Background(), "p:bad", &dest)
	assert.False(t, hit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache decode")
}

func TestResultCache_Unavailable(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewResultCache(client, "p", time.Minute)
	mr.Close()

	var dest cachedProjection
	_, err := c.Get(context.Background(), "p:k", &dest)
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), "p:k", dest))
}

func TestRedisClient_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	assert.NoError(t, rc.Ping(context.Background()))
}
