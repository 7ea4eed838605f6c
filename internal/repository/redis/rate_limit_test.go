package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *RateLimitStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimitStore(client, "test:ratelimit", time.Hour)
}

func TestRateLimitWindowCounting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		if err := store.RecordAttempt(ctx, "203.0.113.7", at); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "203.0.113.7", window, base.Add(3*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	// Attempts fall out of the window once the reference moves past them.
	count, err = store.CountAttempts(ctx, "203.0.113.7", window, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	if count != 0 {
		t.Errorf("count after window = %d, want 0", count)
	}
}

func TestRateLimitTrimWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.RecordAttempt(ctx, "client", base); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if err := store.RecordAttempt(ctx, "client", base.Add(90*time.Second)); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	if err := store.TrimWindow(ctx, "client", time.Minute, base.Add(90*time.Second)); err != nil {
		t.Fatalf("TrimWindow: %v", err)
	}

	count, err := store.CountAttempts(ctx, "client", time.Hour, base.Add(90*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 after trim", count)
	}
}

func TestRateLimitOldestAttempt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, found, err := store.OldestAttempt(ctx, "empty", time.Minute, base)
	if err != nil {
		t.Fatalf("OldestAttempt: %v", err)
	}
	if found {
		t.Error("found oldest attempt in empty window")
	}

	if err := store.RecordAttempt(ctx, "client", base); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if err := store.RecordAttempt(ctx, "client", base.Add(10*time.Second)); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	oldest, found, err := store.OldestAttempt(ctx, "client", time.Minute, base.Add(10*time.Second))
	if err != nil {
		t.Fatalf("OldestAttempt: %v", err)
	}
	if !found {
		t.Fatal("oldest attempt not found")
	}
	if !oldest.Equal(base) {
		t.Errorf("oldest = %v, want %v", oldest, base)
	}
}
