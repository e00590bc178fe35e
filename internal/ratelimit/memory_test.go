package ratelimit

import (
	"testing"
	"time"
)

func TestMemoryLimiter_EnforcesMax(t *testing.T) {
	l := NewMemory(3)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow("key")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, _ := l.Allow("key")
	if ok {
		t.Error("4th request within window should be rejected")
	}
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	now := time.Now()
	l := NewMemory(2)
	l.now = func() time.Time { return now }

	l.Allow("key")
	l.Allow("key")
	if ok, _ := l.Allow("key"); ok {
		t.Fatal("3rd request should be rejected")
	}

	// Past the window the old entries are pruned.
	now = now.Add(Window + time.Second)
	if ok, _ := l.Allow("key"); !ok {
		t.Error("request after window expiry should be allowed")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemory(1)

	l.Allow("a")
	if ok, _ := l.Allow("a"); ok {
		t.Error("second request for a should be rejected")
	}
	if ok, _ := l.Allow("b"); !ok {
		t.Error("first request for b should be allowed")
	}
}

func TestMemoryLimiter_RejectionConsumesNoSlot(t *testing.T) {
	now := time.Now()
	l := NewMemory(1)
	l.now = func() time.Time { return now }

	l.Allow("key")
	for i := 0; i < 5; i++ {
		l.Allow("key")
	}

	// Only the accepted request occupies the window; once it ages out the
	// key is clean again no matter how many rejections happened.
	now = now.Add(Window + time.Second)
	if ok, _ := l.Allow("key"); !ok {
		t.Error("rejected requests must not extend the window")
	}
}
