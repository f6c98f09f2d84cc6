package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisCacheConfig struct {
	Addr           string        `mapstructure:"ADDR"`
	DB             int           `mapstructure:"DB"`
	ConnectTimeout time.Duration `mapstructure:"CONNECT_TIMEOUT"`
	// Prefix namespaces every key, and bounds what Clear removes.
	Prefix string `mapstructure:"PREFIX"`
}

type redisCache struct {
	lg     *zap.Logger
	client *redis.Client
	prefix string
}

// NewRedisCache connects and pings redis. The returned func closes the
// connection.
func NewRedisCache(lg *zap.Logger, cfg *RedisCacheConfig) (Cache, func(), error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, ErrBackend.WithDetails(cfg.Addr).WithCause(err)
	}
	lg.Info("connected to redis for cache", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return &redisCache{
			lg:     lg,
			client: client,
			prefix: cfg.Prefix,
		}, func() {
			if err := client.Close(); err != nil {
				lg.Warn("failed to close redis connection for cache", zap.Error(err))
				return
			}
			lg.Info("closed redis connection for cache", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
		}, nil
}

func (c *redisCache) key(key string) string {
	return c.prefix + key
}

func (c *redisCache) Set(ctx context.Context, key string, value string, expiry time.Duration) error {
	if expiry < 0 {
		expiry = 0
	}
	if err := c.client.Set(ctx, c.key(key), value, expiry).Err(); err != nil {
		return ErrBackend.WithDetails(key).WithCause(err)
	}
	return nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound.WithDetails(key)
		}
		return "", ErrBackend.WithDetails(key).WithCause(err)
	}
	return data, nil
}

func (c *redisCache) Sets(ctx context.Context, kvs map[string]string, expiry time.Duration) error {
	if len(kvs) == 0 {
		return nil
	}
	if expiry < 0 {
		expiry = 0
	}
	pipe := c.client.Pipeline()
	for key, value := range kvs {
		pipe.Set(ctx, c.key(key), value, expiry)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return ErrBackend.WithDetails("pipeline set").WithCause(err)
	}
	return nil
}

func (c *redisCache) Gets(ctx context.Context, keys []string) (map[string]string, error) {
	results := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.key(key)
	}
	values, err := c.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, ErrBackend.WithDetails("mget").WithCause(err)
	}
	for i, value := range values {
		if s, ok := value.(string); ok {
			results[keys[i]] = s
		}
	}
	return results, nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return ErrBackend.WithDetails(key).WithCause(err)
	}
	return nil
}

// Clear removes every key under the configured prefix. Without a prefix it
// flushes the selected database.
func (c *redisCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		if err := c.client.FlushDB(ctx).Err(); err != nil {
			return ErrBackend.WithDetails("flushdb").WithCause(err)
		}
		return nil
	}

	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return ErrBackend.WithDetails("clear").WithCause(err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return ErrBackend.WithDetails("scan").WithCause(err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return ErrBackend.WithDetails("clear").WithCause(err)
		}
	}
	c.lg.Debug("cleared redis cache", zap.String("prefix", c.prefix))
	return nil
}
