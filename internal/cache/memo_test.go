package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type words []string

func (w words) Empty() bool { return len(w) == 0 }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemo_HitWithinWindow(t *testing.T) {
	clk := newFakeClock()
	kv := NewMemory(Options{Now: clk.Now})
	var calls atomic.Int32
	m := NewMemo(kv, "news", time.Hour, func(context.Context) (words, error) {
		calls.Add(1)
		return words{"a", "b"}, nil
	})

	for i := 0; i < 3; i++ {
		got, err := m.Get(context.Background())
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got) != 2 || got[0] != "a" {
			t.Fatalf("Get = %v", got)
		}
		clk.Advance(10 * time.Minute)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("loader calls = %d, want 1", n)
	}
}

func TestMemo_RefetchAfterExpiry(t *testing.T) {
	clk := newFakeClock()
	kv := NewMemory(Options{Now: clk.Now})
	var calls atomic.Int32
	m := NewMemo(kv, "news", time.Hour, func(context.Context) (words, error) {
		n := calls.Add(1)
		if n == 1 {
			return words{"old"}, nil
		}
		return words{"new"}, nil
	})

	if _, err := m.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Hour)
	got, err := m.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 || got[0] != "new" {
		t.Fatalf("calls=%d got=%v, want a refetch returning new", calls.Load(), got)
	}
	// The refreshed value replaced the old entry.
	clk.Advance(30 * time.Minute)
	got, _ = m.Get(context.Background())
	if calls.Load() != 2 || got[0] != "new" {
		t.Fatalf("calls=%d got=%v after refresh", calls.Load(), got)
	}
}

func TestMemo_EmptyResultNotStored(t *testing.T) {
	kv := NewMemory(Options{})
	var calls atomic.Int32
	m := NewMemo(kv, "news", 0, func(context.Context) (words, error) {
		calls.Add(1)
		return words{}, nil
	})
	for i := 0; i < 2; i++ {
		got, err := m.Get(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !got.Empty() {
			t.Fatalf("Get = %v", got)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("loader calls = %d, want 2", calls.Load())
	}
	if kv.size() != 0 {
		t.Errorf("store holds %d entries, want 0", kv.size())
	}
}

func TestMemo_ErrorNotStoredButReturned(t *testing.T) {
	kv := NewMemory(Options{})
	boom := errors.New("boom")
	m := NewMemo(kv, "news", 0, func(context.Context) (words, error) {
		return words{"partial"}, boom
	})
	got, err := m.Get(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(got) != 1 {
		t.Fatalf("value must be returned with the error, got %v", got)
	}
	if kv.size() != 0 {
		t.Error("failed load must not be stored")
	}
}

func TestMemo_DefaultTTL(t *testing.T) {
	m := NewMemo(NewMemory(Options{}), "k", 0, func(context.Context) (words, error) { return nil, nil })
	if m.ttl != DefaultTTL {
		t.Errorf("ttl = %s, want %s", m.ttl, DefaultTTL)
	}
	if m.Key() != "k" {
		t.Errorf("key = %q", m.Key())
	}
}

func TestMemo_CorruptEntryIsMiss(t *testing.T) {
	kv := NewMemory(Options{})
	_ = kv.Put("news", []byte("not-a-codec-payload"), time.Hour)
	m := NewMemo(kv, "news", time.Hour, func(context.Context) (words, error) {
		return words{"fresh"}, nil
	})
	got, err := m.Get(context.Background())
	if err != nil || got[0] != "fresh" {
		t.Fatalf("Get = %v, %v", got, err)
	}
}

func TestMemo_ConcurrentMissesShareLoad(t *testing.T) {
	kv := NewMemory(Options{})
	var calls atomic.Int32
	release := make(chan struct{})
	m := NewMemo(kv, "news", time.Hour, func(context.Context) (words, error) {
		calls.Add(1)
		<-release
		return words{"x"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Get(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Errorf("loader calls = %d, want 1", n)
	}
}

func TestMemo_CanceledCallerDoesNotFailOthers(t *testing.T) {
	kv := NewMemory(Options{})
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewMemo(kv, "news", time.Hour, func(ctx context.Context) (words, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return words{"x"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Get(firstCtx)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   words
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := m.Get(context.Background())
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller err = %v, want context.Canceled", err)
	}
	close(release)

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller err = %v, want nil", got.err)
	}
	if len(got.v) != 1 || got.v[0] != "x" {
		t.Errorf("second caller got %v", got.v)
	}
	if kv.size() != 1 {
		t.Errorf("store holds %d entries, want 1", kv.size())
	}
}
