package storage_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/storage"
	"stationery/internal/infrastructure/storage/file"
	"stationery/internal/infrastructure/storage/memory"
)

const today = "2024-06-01"

func TestRepository_LoadEmpty(t *testing.T) {
	repo := storage.NewRepository(memory.New(), nil)

	st, err := repo.Load(context.Background(), catalog.Default(), today)
	require.NoError(t, err)

	assert.Empty(t, st.Reports)
	assert.Len(t, st.Stock, len(catalog.DefaultItems))
	assert.Equal(t, ledger.Item{}, st.Stock["Pen"])
	assert.Equal(t, reports.StatusProcess, st.Draft.Status)
	assert.Empty(t, st.Selected)
}

func TestRepository_LoadLegacy(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, tracker.KeyReports, []byte(`[{"id": "a", "requesterName": "Ann", "campus": "Main Campus", "date": "2024-01-02", "items": ["Pen", "Pen"]}]`)))
	require.NoError(t, store.Set(ctx, tracker.KeyStock, []byte(`{"Pen": 42}`)))
	require.NoError(t, store.Set(ctx, tracker.KeySelection, []byte(`"gone"`)))

	st, err := storage.NewRepository(store, nil).Load(ctx, catalog.Default(), today)
	require.NoError(t, err)

	require.Len(t, st.Reports, 1)
	assert.Equal(t, "2024-01-02", st.Reports[0].ImportDate)
	assert.Equal(t, reports.Items{"Pen": 2}, st.Reports[0].Items)
	assert.Equal(t, ledger.Item{Quantity: 42, LastInDate: today}, st.Stock["Pen"])
	assert.Empty(t, st.Selected, "selection of a missing report is dropped")
}

func TestRepository_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := storage.NewRepository(store, nil)

	st := tracker.State{
		Reports:  reports.Store{{ID: "a", RequesterName: "Ann", Campus: "Main Campus", ImportDate: "2024-01-02", Items: reports.Items{"Pen": 1}, Status: reports.StatusDone}},
		Stock:    ledger.Ledger{"Pen": {Quantity: 3, LastOutDate: "2024-01-02", LastUpdateQuantity: -1}},
		Draft:    reports.Draft{RequesterName: "Typing", Items: reports.Items{}, Status: reports.StatusProcess},
		Selected: "a",
	}
	for _, key := range tracker.Keys {
		require.NoError(t, repo.Save(ctx, key, st))
	}

	got, err := repo.Load(ctx, catalog.Default(), today)
	require.NoError(t, err)
	assert.Equal(t, st.Reports, got.Reports)
	assert.Equal(t, st.Stock["Pen"], got.Stock["Pen"])
	assert.Equal(t, "Typing", got.Draft.RequesterName)
	assert.Equal(t, "a", got.Selected)

	raw, err := store.Get(ctx, tracker.KeySelection)
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(raw))

	st.Selected = ""
	require.NoError(t, repo.Save(ctx, tracker.KeySelection, st))
	raw, _ = store.Get(ctx, tracker.KeySelection)
	assert.Equal(t, "null", string(raw))
}

func TestMarshal_UnknownKey(t *testing.T) {
	_, err := storage.Marshal("other", tracker.State{})
	assert.Error(t, err)
}

func TestCodec(t *testing.T) {
	codec, err := storage.NewCodec(16)
	require.NoError(t, err)

	small := []byte(`{"a":1}`)
	out, compressed := codec.Encode(small)
	assert.False(t, compressed)
	assert.Equal(t, small, out)

	large := []byte(`[` + strings.Repeat(`{"requesterName":"Ann"},`, 100) + `{}]`)
	out, compressed = codec.Encode(large)
	assert.True(t, compressed)
	assert.Less(t, len(out), len(large))

	back, err := codec.Decode(out)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(large, back))

	back, err = codec.Decode(small)
	require.NoError(t, err)
	assert.Equal(t, small, back)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	codec, err := storage.NewCodec(32)
	require.NoError(t, err)

	store, err := file.New(t.TempDir(), codec)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	_, err = store.Get(ctx, tracker.KeyReports)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	value := []byte(`[` + strings.Repeat(`"Pen",`, 50) + `"Pen"]`)
	require.NoError(t, store.Set(ctx, tracker.KeyReports, value))
	require.NoError(t, store.Set(ctx, tracker.KeyReports, value))

	got, err := store.Get(ctx, tracker.KeyReports)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
