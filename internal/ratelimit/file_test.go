package ratelimit

import (
	"os"
	"testing"
	"time"
)

func TestFileLimiter_EnforcesMax(t *testing.T) {
	l := NewFile(t.TempDir(), 2)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow("key")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := l.Allow("key"); ok {
		t.Error("3rd request should be rejected")
	}
}

func TestFileLimiter_WindowSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	l := NewFile(dir, 1)
	if ok, _ := l.Allow("key"); !ok {
		t.Fatal("first request should be allowed")
	}

	// A fresh limiter over the same directory sees the persisted window.
	l2 := NewFile(dir, 1)
	if ok, _ := l2.Allow("key"); ok {
		t.Error("window must survive a process restart")
	}
}

func TestFileLimiter_PrunesOldEntries(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	l := NewFile(dir, 1)
	l.now = func() time.Time { return now }

	l.Allow("key")
	if ok, _ := l.Allow("key"); ok {
		t.Fatal("2nd request should be rejected")
	}

	l.now = func() time.Time { return now.Add(Window + time.Second) }
	if ok, _ := l.Allow("key"); !ok {
		t.Error("request after window expiry should be allowed")
	}
}

func TestFileLimiter_CorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	l := NewFile(dir, 1)

	if err := os.WriteFile(l.path("key"), []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.Allow("key"); !ok {
		t.Error("corrupt window file should not block requests")
	}
}

func TestFileLimiter_KeyedByHash(t *testing.T) {
	l := NewFile("/tmp", 1)
	p := l.path("iotlogic")
	// md5("iotlogic") pins the on-disk naming scheme.
	want := "/tmp/tank_api_rate_limit_17554d1ffd3ca2e7bccf0efa8946c49d"
	if p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}
