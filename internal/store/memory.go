package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	value   string
	version int64
}

// MemoryKV is the in-process backend, used by tests and as a cache-free
// default when no durable path is configured.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memoryEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return "", 0, nil
	}
	return e.value, e.version, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string, version int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.entries[key].version
	if version != current {
		return 0, ErrVersionConflict
	}
	next := current + 1
	m.entries[key] = memoryEntry{value: value, version: next}
	return next, nil
}

func (m *MemoryKV) Close() error {
	return nil
}
