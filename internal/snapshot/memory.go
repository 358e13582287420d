package snapshot

import (
	"bytes"
	"context"
	"sync"

	"ft-go/internal/ft"
)

// MemoryStore is an in-memory SnapshotStore, useful for testing and for
// running without any local persistence. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ ft.SnapshotStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// bytes.Clone keeps a non-nil empty value distinguishable from absence.
	v := bytes.Clone(data)
	if v == nil {
		v = []byte{}
	}
	m.data[key] = v
	return nil
}

func (m *MemoryStore) Close() error { return nil }
