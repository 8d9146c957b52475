package cache

import (
	"context"
	"sync"
	"time"
)

// Cache represents a store of serialized upstream responses
// keyed by source and parameters
type Cache interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory represents an in-process cache with per-entry expiry
// that implements the Cache interface
type Memory struct {
	sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Connect is a no-op for the in-process cache
func (m *Memory) Connect(ctx context.Context) error {
	return nil
}

// Disconnect drops all entries
func (m *Memory) Disconnect(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()

	m.entries = make(map[string]entry)
	return nil
}

// Get gets a cached value if it exists and has not expired
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.Lock()
	defer m.Unlock()

	cached, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}

	if m.now().After(cached.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}

	return cached.value, true, nil
}

// Set stores a value for the given amount of time;
// a non-positive ttl skips the write
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.Lock()
	defer m.Unlock()

	m.entries[key] = entry{
		value:   value,
		expires: m.now().Add(ttl),
	}
	return nil
}
