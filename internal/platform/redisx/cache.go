package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// JSONCache stores values as JSON under a fixed TTL.
type JSONCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewJSONCache(rdb *goredis.Client, ttl time.Duration) *JSONCache {
	return &JSONCache{rdb: rdb, ttl: ttl}
}

// Get decodes key into out. found is false on a cache miss.
func (c *JSONCache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *JSONCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *JSONCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
