package tracker

import (
	"context"
	"sync/atomic"

	"stationery/internal/core/apperror"
)

// Guard marks an import as in flight. Acquire fails with IMPORT_IN_PROGRESS
// while another holder exists.
type Guard interface {
	Acquire(ctx context.Context) (release func(), err error)
	Held(ctx context.Context) (bool, error)
}

// LocalGuard is an in-process Guard.
type LocalGuard struct {
	held atomic.Bool
}

// Acquire implements Guard.
func (g *LocalGuard) Acquire(context.Context) (func(), error) {
	if !g.held.CompareAndSwap(false, true) {
		return nil, apperror.NewImportInProgress()
	}
	return func() { g.held.Store(false) }, nil
}

// Held implements Guard.
func (g *LocalGuard) Held(context.Context) (bool, error) {
	return g.held.Load(), nil
}
