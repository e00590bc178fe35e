package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests with an atomic INCR on a key scoped to the
// current 60-second window, expiring a window after it closes. Closes the
// read-modify-write race of the file backend, at fixed-window granularity.
type RedisLimiter struct {
	rdb *redis.Client
	max int
	ctx context.Context
	now func() time.Time
}

func NewRedis(rdb *redis.Client, max int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: max, ctx: context.Background(), now: time.Now}
}

func (l *RedisLimiter) Allow(key string) (bool, error) {
	window := l.now().Unix() / int64(Window/time.Second)
	k := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := l.rdb.Incr(l.ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.rdb.Expire(l.ctx, k, 2*Window)
	}
	return count <= int64(l.max), nil
}
