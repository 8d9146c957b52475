package storage

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Store is the key/value backend the dashboard persists its state through
// (enabled widgets, theme, todos, clocks).
// Values are opaque JSON documents
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Memory is a Store that keeps everything in process memory
type Memory struct {
	sync.Mutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under the key
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.Lock()
	defer m.Unlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

// Set replaces the value stored under the key
func (m *Memory) Set(key string, value []byte) error {
	m.Lock()
	defer m.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes the key; deleting a missing key is not an error
func (m *Memory) Delete(key string) error {
	m.Lock()
	defer m.Unlock()

	delete(m.values, key)
	return nil
}

// GetJSON decodes the value under the key into out.
// The boolean is false when the key has never been written
func GetJSON[T any](store Store, key string, out *T) (bool, error) {
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return false, err
	}

	err = json.Unmarshal(raw, out)
	if err != nil {
		return false, errors.Wrapf(err, "could not decode stored value for %q", key)
	}

	return true, nil
}

// SetJSON encodes the value and writes it under the key
func SetJSON[T any](store Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "could not encode value for %q", key)
	}

	return store.Set(key, raw)
}
