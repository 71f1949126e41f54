// Package redisx wraps the optional Redis connection: a JSON cache with TTLs
// and a fixed-window rate limiter.
package redisx

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "studyquiz:"

// Connect dials REDIS_ADDR and pings it. With REDIS_ADDR unset it returns
// (nil, nil) and callers fall back to in-process state.
func Connect(ctx context.Context, log *logger.Logger) (*goredis.Client, error) {
	addr := envutil.String("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.Secret("REDIS_PASSWORD", log),
		DB:          envutil.Int("REDIS_DB", 0, log),
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if log != nil {
		log.Info("Redis connected", "addr", addr)
	}
	return rdb, nil
}

func Key(parts ...string) string {
	k := KeyPrefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}
