// internal/common/cache/redis.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artvaluation-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client. It does not dial; use Ping.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// ResultCache stores computed results as JSON under content-addressed keys.
// A nil *ResultCache, or one without a client, never hits and never stores.
type ResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, prefix string, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ResultCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key hashes the JSON encoding of parts. Equal inputs always map to the
// same key, so callers should pass fully resolved values rather than
// overrides.
func (c *ResultCache) Key(parts ...interface{}) (string, error) {
	payload, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return c.prefix + ":" + hex.EncodeToString(sum[:]), nil
}

// Get decodes the cached value into dest. It reports false on a miss.
func (c *ResultCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value with the cache TTL. A zero TTL keeps the key forever.
func (c *ResultCache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
