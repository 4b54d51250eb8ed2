// Package file stores each blob as <dir>/<key>.json.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"stationery/internal/infrastructure/storage"
)

// Store is a directory-backed storage backend. Large blobs are written
// zstd-compressed.
type Store struct {
	dir   string
	codec *storage.Codec
	mu    sync.Mutex
}

// New creates dir if needed and returns a store rooted there.
func New(dir string, codec *storage.Codec) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir, codec: codec}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements storage.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.codec != nil {
		return s.codec.Decode(data)
	}
	return data, nil
}

// Set implements storage.Store. The write goes to a temp file that is
// renamed over the old one, so readers never see a partial blob.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if s.codec != nil {
		value, _ = s.codec.Encode(value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// Ping implements storage.Store.
func (s *Store) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

// Close implements storage.Store.
func (s *Store) Close() error { return nil }
