package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/arena/pkg/metrics"
)

// Default redis configuration constants.
const (
	defaultDialTimeout    = 5 * time.Second
	defaultReadTimeout    = 3 * time.Second
	defaultWriteTimeout   = 3 * time.Second
	defaultPoolSize       = 10
	defaultUpdateAttempts = 16
)

// RedisOption applies a configuration option to the RedisKV.
type RedisOption func(*redisConfig)

type redisConfig struct {
	addr           string
	password       string
	db             int
	updateAttempts int
}

// WithAddr sets the redis address, e.g. "localhost:6379".
func WithAddr(addr string) RedisOption {
	return func(c *redisConfig) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// WithPassword sets the redis password.
func WithPassword(password string) RedisOption {
	return func(c *redisConfig) {
		c.password = password
	}
}

// WithDB selects the redis logical database.
func WithDB(db int) RedisOption {
	return func(c *redisConfig) {
		if db >= 0 {
			c.db = db
		}
	}
}

// WithUpdateAttempts bounds the optimistic retry loop in Update.
func WithUpdateAttempts(n int) RedisOption {
	return func(c *redisConfig) {
		if n > 0 {
			c.updateAttempts = n
		}
	}
}

// RedisKV implements KV on a redis server. Update uses WATCH-based
// optimistic transactions, so concurrent writers of the same key never
// observe the same prior value.
type RedisKV struct {
	rdb            *redis.Client
	updateAttempts int
}

// NewRedisKV connects to redis and verifies the connection.
func NewRedisKV(ctx context.Context, opts ...RedisOption) (*RedisKV, error) {
	cfg := &redisConfig{
		addr:           "localhost:6379",
		updateAttempts: defaultUpdateAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.addr,
		Password:     cfg.password,
		DB:           cfg.db,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		PoolSize:     defaultPoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.addr, err)
	}

	return &RedisKV{rdb: rdb, updateAttempts: cfg.updateAttempts}, nil
}

// Get returns the value stored at key.
func (s *RedisKV) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("get")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	value, err := s.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value at key.
func (s *RedisKV) Set(ctx context.Context, key Key, value []byte) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("set")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := s.rdb.Set(ctx, key.String(), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Update atomically applies fn to the current value of key.
func (s *RedisKV) Update(ctx context.Context, key Key, fn func(cur []byte, ok bool) ([]byte, error)) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("update")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	k := key.String()
	txn := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, k).Bytes()
		ok := true
		if errors.Is(err, redis.Nil) {
			cur, ok = nil, false
		} else if err != nil {
			return err
		}

		next, err := fn(cur, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.updateAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txn, k)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Key changed under us; retry.
			continue
		}
		return fmt.Errorf("redis update %s: %w", key, err)
	}
	return fmt.Errorf("redis update %s: %w", key, ErrUpdateContention)
}

// Close releases the redis connection pool.
func (s *RedisKV) Close() error {
	return s.rdb.Close()
}
