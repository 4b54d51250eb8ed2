// Package storage persists the tracker state as four keyed JSON blobs on a
// pluggable key-value backend.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get for keys that were never written.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key-value backend. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
