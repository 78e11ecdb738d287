package store

import (
	"context"
	"sync"

	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]stakeholder.Set
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]stakeholder.Set)}
}

func (m *MemoryStore) Save(ctx context.Context, key string, set stakeholder.Set) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = set.Clone()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, key string) (stakeholder.Set, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[key]
	if !ok {
		return nil, false, nil
	}
	return set.Clone(), true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) String() string { return "memory" }

var _ Store = (*MemoryStore)(nil)

// NullStore discards writes and never finds anything.
type NullStore struct{}

func (NullStore) Save(context.Context, string, stakeholder.Set) error { return nil }

func (NullStore) Load(context.Context, string) (stakeholder.Set, bool, error) {
	return nil, false, nil
}

func (NullStore) Delete(context.Context, string) error { return nil }
func (NullStore) Close() error                         { return nil }
func (NullStore) String() string                       { return "none" }

var _ Store = NullStore{}
