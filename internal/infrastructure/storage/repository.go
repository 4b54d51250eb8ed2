package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/migrate"
	"stationery/internal/domain/tracker"
	"stationery/pkg/logger"
)

// Repository maps tracker state onto the four persisted blobs. Loading runs
// every blob through migrate, so legacy shapes are upgraded once at load.
type Repository struct {
	store Store
	log   *logger.Logger
}

// NewRepository creates a repository on top of store.
func NewRepository(store Store, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{store: store, log: log.WithComponent("storage")}
}

// Store returns the underlying backend.
func (r *Repository) Store() Store { return r.store }

// Load implements tracker.Repository.
func (r *Repository) Load(ctx context.Context, cat *catalog.Catalog, today string) (tracker.State, error) {
	blobs := make(map[string][]byte, len(tracker.Keys))
	for _, key := range tracker.Keys {
		raw, err := r.store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return tracker.State{}, fmt.Errorf("get %s: %w", key, err)
		}
		blobs[key] = raw
	}

	state := tracker.State{
		Reports:  migrate.Reports(blobs[tracker.KeyReports], today),
		Stock:    migrate.Stock(blobs[tracker.KeyStock], cat.Items(), today),
		Draft:    migrate.Draft(blobs[tracker.KeyDraft], today),
		Selected: migrate.Selection(blobs[tracker.KeySelection]),
	}
	if state.Selected != "" {
		if _, err := state.Reports.Get(state.Selected); err != nil {
			r.log.WithContext(ctx).Debugw("dropping stale selection", "id", state.Selected)
			state.Selected = ""
		}
	}
	return state, nil
}

// Save implements tracker.Repository.
func (r *Repository) Save(ctx context.Context, key string, s tracker.State) error {
	value, err := Marshal(key, s)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Marshal renders the blob stored under key.
func Marshal(key string, s tracker.State) ([]byte, error) {
	var v any
	switch key {
	case tracker.KeyReports:
		v = s.Reports
		if s.Reports == nil {
			v = []struct{}{}
		}
	case tracker.KeyStock:
		v = s.Stock
	case tracker.KeyDraft:
		v = s.Draft
	case tracker.KeySelection:
		if s.Selected != "" {
			v = s.Selected
		}
	default:
		return nil, fmt.Errorf("unknown storage key %q", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	return data, nil
}
