package ratelimit

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileLimiter persists the window as a JSON list of epoch seconds in one file
// per key, so the window survives process restarts. The read-modify-write is
// not atomic; concurrent requests under one key can under-count. Acceptable
// for coarse abuse prevention.
type FileLimiter struct {
	dir string
	max int
	now func() time.Time
}

func NewFile(dir string, max int) *FileLimiter {
	return &FileLimiter{dir: dir, max: max, now: time.Now}
}

func (l *FileLimiter) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(l.dir, "tank_api_rate_limit_"+hex.EncodeToString(sum[:]))
}

func (l *FileLimiter) Allow(key string) (bool, error) {
	path := l.path(key)
	now := l.now().Unix()
	cutoff := now - int64(Window/time.Second)

	var stamps []int64
	if data, err := os.ReadFile(path); err == nil {
		// An unreadable or corrupt window file starts a fresh window.
		_ = json.Unmarshal(data, &stamps)
	}

	kept := stamps[:0]
	for _, ts := range stamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		return false, nil
	}

	kept = append(kept, now)
	data, err := json.Marshal(kept)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, err
	}
	return true, nil
}
