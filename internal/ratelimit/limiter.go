// Package ratelimit throttles ingestion per API key over a trailing
// 60-second window.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iotlogic/tank-monitor/internal/config"
)

// Window is the trailing interval the request count is evaluated over.
const Window = 60 * time.Second

// Limiter reports whether a request under the given key may proceed.
// An allowed request counts against the key's window; a rejected one does not.
type Limiter interface {
	Allow(key string) (bool, error)
}

// New builds the limiter the configuration asks for. The memory backend is
// exact within one process, the file backend survives restarts, the redis
// backend is safe across instances.
func New(cfg *config.Config) (Limiter, error) {
	switch cfg.RateLimitBackend {
	case "memory":
		return NewMemory(cfg.MaxRequestsPerMinute), nil
	case "file":
		return NewFile(cfg.RateLimitDir, cfg.MaxRequestsPerMinute), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return NewRedis(rdb, cfg.MaxRequestsPerMinute), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.RateLimitBackend)
	}
}
