// Package cache is a strictly advisory redis cache. Every failure degrades
// to a miss so callers always fall through to the store; cached entries are
// never a source of truth and always carry a bounded TTL.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/common/config"
)

// Cache wraps a redis client with best-effort JSON get/set semantics
type Cache struct {
	client redis.Cmdable
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// New connects to redis per cfg. An empty addr or a failed ping returns a
// disabled cache rather than an error.
func New(cfg *config.RedisConfig, logger *zap.Logger) *Cache {
	c := &Cache{
		logger: logger.Named("cache"),
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
	if cfg.Addr == "" {
		c.logger.Info("cache disabled, no redis address configured")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.Warn("redis unreachable, cache disabled", zap.Error(err))
		return c
	}

	c.client = client
	return c
}

// NewWithClient builds a cache around an existing client. Used by tests.
func NewWithClient(client redis.Cmdable, prefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger.Named("cache"), prefix: prefix, ttl: ttl}
}

// Enabled reports whether a redis connection is available
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Get unmarshals the cached value for key into dest, reporting a hit
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry unmarshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key. A non-positive ttl uses the configured default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a single key
func (c *Cache) Delete(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// DeletePattern removes all keys matching the glob pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache pattern delete failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// Close releases the underlying connection
func (c *Cache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
