package cache

import (
	"sync"
	"time"
)

// Memory is an in-process KV. The front end falls back to it when the cache
// daemon is unreachable, and tests drive its clock directly.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt int64
}

// NewMemory returns an empty Memory store. Only DefaultTTL and Now of opts
// are used.
func NewMemory(opts Options) *Memory {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		now:        now,
	}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if isExpired(m.now(), e.expiresAt) {
		return nil, ErrExpired
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Put(key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: expiry(m.now(), ttl, m.defaultTTL),
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// size reports how many keys are held, expired ones included.
func (m *Memory) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
