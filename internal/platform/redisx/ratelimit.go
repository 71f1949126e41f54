package redisx

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter allows Limit hits per key per Window using fixed windows.
type RateLimiter struct {
	rdb    *goredis.Client
	Limit  int
	Window time.Duration
	now    func() time.Time
}

func NewRateLimiter(rdb *goredis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, Limit: limit, Window: window, now: time.Now}
}

// Allow records one hit for key and reports whether it is within the limit,
// plus how long until the current window resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	bucket, reset := windowOf(l.now(), l.Window)
	k := Key("ratelimit", key, strconv.FormatInt(bucket, 10))

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	return incr.Val() <= int64(l.Limit), reset, nil
}

// windowOf returns the index of the window containing now and the time left
// in it.
func windowOf(now time.Time, window time.Duration) (int64, time.Duration) {
	if window <= 0 {
		window = time.Minute
	}
	n := now.UnixNano()
	w := int64(window)
	bucket := n / w
	return bucket, time.Duration((bucket+1)*w - n)
}
