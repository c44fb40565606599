package store

import (
	"context"
	"sync"
)

// MemoryStore keeps tables for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	tables []SavedTable
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) ([]SavedTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTables(m.tables), nil
}

func (m *MemoryStore) Save(_ context.Context, tables []SavedTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = cloneTables(tables)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func cloneTables(tables []SavedTable) []SavedTable {
	if tables == nil {
		return nil
	}
	out := make([]SavedTable, len(tables))
	for i, t := range tables {
		t.Data = t.Data.Clone()
		out[i] = t
	}
	return out
}
