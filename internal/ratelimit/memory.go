package ratelimit

import (
	"sync"
	"time"
)

// MemoryLimiter keeps a sliding window log per key behind a mutex. Exact for
// a single-process deployment.
type MemoryLimiter struct {
	mu   sync.Mutex
	max  int
	hits map[string][]time.Time
	now  func() time.Time
}

func NewMemory(max int) *MemoryLimiter {
	return &MemoryLimiter{
		max:  max,
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-Window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.hits[key] = kept
		return false, nil
	}

	l.hits[key] = append(kept, now)
	return true, nil
}
