// Package redis provides the Redis storage backend and a distributed import
// guard built on redislock.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"stationery/internal/core/apperror"
	"stationery/internal/infrastructure/storage"
	"stationery/pkg/logger"
)

// Options configures the client.
type Options struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// NewClient connects and pings.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Address, err)
	}
	return rdb, nil
}

// Store keeps each blob under <prefix><key>.
type Store struct {
	rdb    *redis.Client
	codec  *storage.Codec
	prefix string
}

// New returns a store on rdb.
func New(rdb *redis.Client, codec *storage.Codec, prefix string) *Store {
	return &Store{rdb: rdb, codec: codec, prefix: prefix}
}

// Get implements storage.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
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

// Set implements storage.Store. Keys never expire.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.codec != nil {
		value, _ = s.codec.Encode(value)
	}
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

// Ping implements storage.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// DefaultLockTTL bounds how long a crashed importer can block others.
const DefaultLockTTL = 5 * time.Minute

// LockGuard is a tracker.Guard shared by every process using the same
// Redis, so only one import runs across all of them.
type LockGuard struct {
	rdb    *redis.Client
	locker *redislock.Client
	key    string
	ttl    time.Duration
	log    *logger.Logger
}

// NewLockGuard creates a guard on key.
func NewLockGuard(rdb *redis.Client, key string, ttl time.Duration, log *logger.Logger) *LockGuard {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LockGuard{
		rdb:    rdb,
		locker: redislock.New(rdb),
		key:    key,
		ttl:    ttl,
		log:    log.WithComponent("import_lock"),
	}
}

// Acquire implements tracker.Guard.
func (g *LockGuard) Acquire(ctx context.Context) (func(), error) {
	lock, err := g.locker.Obtain(ctx, g.key, g.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apperror.NewImportInProgress()
	}
	if err != nil {
		return nil, fmt.Errorf("obtain import lock: %w", err)
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.log.WithContext(ctx).Warnw("failed to release import lock", "error", err)
		}
	}, nil
}

// Held implements tracker.Guard.
func (g *LockGuard) Held(ctx context.Context) (bool, error) {
	n, err := g.rdb.Exists(ctx, g.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
