package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentMiss(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errors.New("unexpected value " + v)
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore[int](time.Minute)
	store.now = func() time.Time { return now }

	store.Set("k", 1)
	if v, ok := store.Get("k"); !ok || v != 1 {
		t.Fatalf("expected cached value, got %d ok=%v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 9, nil })
	if err != nil || v != 9 {
		t.Fatalf("expected reload after error, got v=%d err=%v", v, err)
	}

	store.Delete("k")
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected deleted key to miss")
	}
}
