// Package memory provides an in-process storage backend for tests and
// throwaway runs.
package memory

import (
	"context"
	"sync"

	"stationery/internal/infrastructure/storage"
)

// Store keeps blobs in a map.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements storage.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements storage.Store.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Ping implements storage.Store.
func (s *Store) Ping(context.Context) error { return nil }

// Close implements storage.Store.
func (s *Store) Close() error { return nil }
