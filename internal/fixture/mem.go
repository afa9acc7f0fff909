package fixture

import (
	"context"
	"sync"
)

// MemStore holds fixtures in memory. Safe for concurrent use.
type MemStore struct {
	mu   sync.RWMutex
	data map[Key][]byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[Key][]byte)}
}

// Put stores a copy of data under key.
func (s *MemStore) Put(key Key, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
}

// Exists implements Source.
func (s *MemStore) Exists(_ context.Context, key Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

// Read implements Source.
func (s *MemStore) Read(_ context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), data...), nil
}
