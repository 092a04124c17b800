// Package storage persists JSON values under string keys on the local
// device. Callers see a plain get/set store; the backend is picked from
// config.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a key to JSON value store. Get reports false when the key has
// never been written, leaving v untouched so callers keep their default.
type Store interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
	Close() error
}

// Open returns the backend named by kind: "sqlite" at path (a database
// file) or "disk" at path (a directory).
func Open(kind, path string) (Store, error) {
	switch kind {
	case "sqlite", "":
		return OpenSQLite(path)
	case "disk":
		return OpenDisk(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

func decode(key string, raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func encode(key string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", key, err)
	}
	return raw, nil
}

// Memory keeps values in process. Useful for tests and one-shot runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(key string, v any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, v)
}

func (m *Memory) Set(key string, v any) error {
	raw, err := encode(key, v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
