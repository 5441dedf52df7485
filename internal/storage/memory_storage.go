package storage

import (
	"context"
	"sync"

	"storefront-library/internal/domain"
)

type memoryEntry struct {
	data     []byte
	revision int64
}

// MemoryStore keeps documents in process memory. Used for tests and
// ephemeral demo runs.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Document, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.docs[key]
	if !ok {
		return &Document{Key: key}, nil
	}
	return &Document{Key: key, Data: append([]byte(nil), e.data...), Revision: e.revision}, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if err := ValidateKey(key); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs[key].revision != expected {
		return 0, domain.ErrRevisionConflict
	}
	next := expected + 1
	m.docs[key] = memoryEntry{data: append([]byte(nil), data...), revision: next}
	return next, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
