package storage

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	writes []Write
}

// Write records one Set call on a MemoryStore.
type Write struct {
	Key   string
	Value string
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes = append(m.writes, Write{Key: key, Value: value})
	return nil
}

// Writes returns every Set call in order.
func (m *MemoryStore) Writes() []Write {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Write, len(m.writes))
	copy(out, m.writes)
	return out
}

func (m *MemoryStore) Close() error { return nil }
