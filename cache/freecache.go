package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
)

// MinFreeCacheSize is the smallest size freecache accepts; smaller sizes are
// raised to it.
const MinFreeCacheSize = 512 * 1024

type freeCache struct {
	cache *freecache.Cache
}

// NewFreeCache returns an in-process cache holding at most size bytes.
func NewFreeCache(size int) Cache {
	if size < MinFreeCacheSize {
		size = MinFreeCacheSize
	}
	return &freeCache{cache: freecache.NewCache(size)}
}

func ttlSeconds(expiry time.Duration) int {
	if expiry <= 0 {
		return 0
	}
	// freecache has second granularity; never round a live entry down to
	// "no expiry".
	seconds := int(expiry / time.Second)
	if expiry%time.Second != 0 {
		seconds++
	}
	return seconds
}

func (c *freeCache) Set(ctx context.Context, key string, value string, expiry time.Duration) error {
	if err := c.cache.Set([]byte(key), []byte(value), ttlSeconds(expiry)); err != nil {
		return ErrBackend.WithDetails(key).WithCause(err)
	}
	return nil
}

func (c *freeCache) Get(ctx context.Context, key string) (string, error) {
	data, err := c.cache.Get([]byte(key))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return "", ErrKeyNotFound.WithDetails(key)
		}
		return "", ErrBackend.WithDetails(key).WithCause(err)
	}
	return string(data), nil
}

func (c *freeCache) Sets(ctx context.Context, kvs map[string]string, expiry time.Duration) error {
	for key, value := range kvs {
		if err := c.Set(ctx, key, value, expiry); err != nil {
			return err
		}
	}
	return nil
}

func (c *freeCache) Gets(ctx context.Context, keys []string) (map[string]string, error) {
	results := make(map[string]string, len(keys))
	for _, key := range keys {
		data, err := c.cache.Get([]byte(key))
		if errors.Is(err, freecache.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, ErrBackend.WithDetails(key).WithCause(err)
		}
		results[key] = string(data)
	}
	return results, nil
}

func (c *freeCache) Delete(ctx context.Context, key string) error {
	c.cache.Del([]byte(key))
	return nil
}

func (c *freeCache) Clear(ctx context.Context) error {
	c.cache.Clear()
	return nil
}
