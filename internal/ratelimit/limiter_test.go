package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryAllow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(2, time.Minute)
	m.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := m.Allow(ctx, "7"); !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if ok, _ := m.Allow(ctx, "7"); ok {
		t.Fatal("third request should be limited")
	}
	if ok, _ := m.Allow(ctx, "8"); !ok {
		t.Fatal("other keys have their own window")
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Allow(ctx, "7"); !ok {
		t.Fatal("window should reset")
	}
}

func TestMemoryEvictsExpiredWindows(t *testing.T) {
	now := time.Now()
	m := NewMemory(1, time.Second)
	m.now = func() time.Time { return now }

	_, _ = m.Allow(context.Background(), "a")
	_, _ = m.Allow(context.Background(), "b")
	now = now.Add(2 * time.Second)
	_, _ = m.Allow(context.Background(), "c")

	if len(m.windows) != 1 {
		t.Errorf("windows = %d, want 1", len(m.windows))
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory(10, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := m.Allow(context.Background(), "k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d, want 10", allowed)
	}
}

func TestRedisClientBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Fatal("expected parse error")
	}
}
