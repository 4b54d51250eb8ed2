package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/infrastructure/storage"
	"stationery/internal/infrastructure/storage/postgres"
)

// newStore connects to DATABASE_URL. The table is shared, so tests use
// their own keys.
func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	require.NoError(t, err)

	codec, err := storage.NewCodec(64)
	require.NoError(t, err)

	s := postgres.New(pool, codec)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx), "schema creation is idempotent")
	return s
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	key := "test." + t.Name()

	_, err := s.Get(ctx, key+".missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`"first"`)))
	require.NoError(t, s.Set(ctx, key, []byte(`"second"`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `"second"`, string(got), "last write wins")

	big := "[" + strings.Repeat(`{"items":{"Pen":1}},`, 200) + "{}]"
	require.NoError(t, s.Set(ctx, key, []byte(big)))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, big, string(got))

	require.NoError(t, s.Ping(ctx))
}
