package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leonardcser/motorsport-web/internal/logger"
)

// DefaultTTL is the window applied when a Memo is built with ttl <= 0.
const DefaultTTL = time.Hour

// Emptier reports whether a value carries no usable data. Empty values are
// returned to callers but never stored.
type Emptier interface {
	Empty() bool
}

// Loader produces a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// Memo caches the result of a zero-argument Loader under a fixed key for a
// time window. Memos sharing a key on the same KV overwrite each other.
type Memo[T Emptier] struct {
	kv    KV
	key   string
	ttl   time.Duration
	load  Loader[T]
	group singleflight.Group
}

func NewMemo[T Emptier](kv KV, key string, ttl time.Duration, load Loader[T]) *Memo[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo[T]{kv: kv, key: key, ttl: ttl, load: load}
}

func (m *Memo[T]) Key() string { return m.key }

type outcome[T any] struct {
	value T
	err   error
}

// Get returns the stored value while it is inside the window, otherwise it
// runs the loader. A result is stored only when the loader succeeded and the
// value is non-empty; the fresh result is returned either way. Concurrent
// misses share a single loader call, which is detached from the caller's
// cancellation so one abandoned request cannot fail the others; each caller
// still stops waiting when its own ctx is done.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	if v, ok := m.cached(); ok {
		return v, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(m.key, func() (any, error) {
		if v, ok := m.cached(); ok {
			return outcome[T]{value: v}, nil
		}
		v, err := m.load(loadCtx)
		if err == nil && !v.Empty() {
			m.store(v)
		}
		return outcome[T]{value: v, err: err}, nil
	})
	select {
	case res := <-ch:
		o := res.Val.(outcome[T])
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (m *Memo[T]) cached() (T, bool) {
	var v T
	b, err := m.kv.Get(m.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
			logger.Warnf("cache get %s: %v", m.key, err)
		}
		return v, false
	}
	if err := decodeValue(b, &v); err != nil {
		logger.Warnf("cache decode %s: %v", m.key, err)
		return v, false
	}
	return v, true
}

func (m *Memo[T]) store(v T) {
	b, err := encodeValue(v)
	if err != nil {
		logger.Warnf("cache encode %s: %v", m.key, err)
		return
	}
	if err := m.kv.Put(m.key, b, m.ttl); err != nil {
		logger.Warnf("cache put %s: %v", m.key, err)
	}
}
