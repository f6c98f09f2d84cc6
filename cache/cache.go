package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a string key/value store with per-entry expiry. A non-positive
// expiry keeps the entry until it is evicted or deleted.
type Cache interface {
	Set(ctx context.Context, key string, value string, expiry time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Sets(ctx context.Context, kvs map[string]string, expiry time.Duration) error
	// Gets returns only the keys that were found.
	Gets(ctx context.Context, keys []string) (map[string]string, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

func SetTyped[T any](ctx context.Context, cache Cache, key string, value T, expiry time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return ErrJsonMarshal.WithCause(err)
	}
	return cache.Set(ctx, key, string(data), expiry)
}

func GetTyped[T any](ctx context.Context, cache Cache, key string) (T, error) {
	var result T
	value, err := cache.Get(ctx, key)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return result, ErrJsonUnmarshal.WithDetails(key).WithCause(err)
	}
	return result, nil
}

func SetsTyped[T any](ctx context.Context, cache Cache, kvs map[string]T, expiry time.Duration) error {
	if len(kvs) == 0 {
		return nil
	}
	jsonKvs := make(map[string]string, len(kvs))
	for key, value := range kvs {
		data, err := json.Marshal(value)
		if err != nil {
			return ErrJsonMarshal.WithDetails(key).WithCause(err)
		}
		jsonKvs[key] = string(data)
	}
	return cache.Sets(ctx, jsonKvs, expiry)
}

// GetsTyped decodes every found key. Entries that fail to decode are an error.
func GetsTyped[T any](ctx context.Context, cache Cache, keys []string) (map[string]T, error) {
	results, err := cache.Gets(ctx, keys)
	if err != nil {
		return nil, err
	}
	resultMap := make(map[string]T, len(results))
	for key, value := range results {
		var result T
		if err := json.Unmarshal([]byte(value), &result); err != nil {
			return nil, ErrJsonUnmarshal.WithDetails(key).WithCause(err)
		}
		resultMap[key] = result
	}
	return resultMap, nil
}
