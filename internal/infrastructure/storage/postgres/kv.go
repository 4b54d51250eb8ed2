package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stationery/internal/infrastructure/storage"
)

var tracer = otel.Tracer("stationery/storage/postgres")

// TableName is the key-value table.
const TableName = "stationery_kv"

// CompressionAlgo records how a stored value is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	key              TEXT PRIMARY KEY,
	value            BYTEA NOT NULL,
	compression_algo TEXT NOT NULL DEFAULT 'none',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type row struct {
	Value           []byte          `db:"value"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// Store keeps each blob in one row of stationery_kv.
type Store struct {
	pool    *pgxpool.Pool
	codec   *storage.Codec
	builder squirrel.StatementBuilderType
}

// New returns a store on pool. Call EnsureSchema before first use.
func New(pool *pgxpool.Pool, codec *storage.Codec) *Store {
	return &Store{
		pool:    pool,
		codec:   codec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureSchema creates the table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create %s: %w", TableName, err)
	}
	return nil
}

// Get implements storage.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "kv.get", trace.WithAttributes(attribute.String("kv.key", key)))
	defer span.End()

	query, args, err := s.builder.
		Select("value", "compression_algo", "updated_at").
		From(TableName).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var r row
	if err := pgxscan.Get(ctx, s.pool, &r, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, storage.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	if r.CompressionAlgo == CompressionZstd {
		if s.codec == nil {
			return nil, errors.New("compressed value but no codec configured")
		}
		return s.codec.Decode(r.Value)
	}
	return r.Value, nil
}

// Set implements storage.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "kv.set", trace.WithAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.bytes", len(value)),
	))
	defer span.End()

	algo := CompressionNone
	if s.codec != nil {
		if encoded, compressed := s.codec.Encode(value); compressed {
			value = encoded
			algo = CompressionZstd
		}
	}
	span.SetAttributes(attribute.String("kv.compression", string(algo)))

	query, args, err := s.builder.
		Insert(TableName).
		Columns("key", "value", "compression_algo", "updated_at").
		Values(key, value, algo, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, compression_algo = EXCLUDED.compression_algo, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Ping implements storage.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements storage.Store.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
