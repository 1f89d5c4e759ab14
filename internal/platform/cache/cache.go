// Package cache keeps rendered list responses until a committed change to
// the same entity family invalidates them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "hrms:list:"
	genPrefix = "hrms:gen:"
)

// ErrMiss is returned by Backend.Get for a missing key.
var ErrMiss = errors.New("cache miss")

// Backend stores encoded list entries.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) error
}

type redisBackend struct {
	rdb *redis.Client
}

func (b redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return value, err
}

func (b redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

func (b redisBackend) Incr(ctx context.Context, key string) error {
	return b.rdb.Incr(ctx, key).Err()
}

// Memory is an in-process Backend. Entries do not expire; the generation
// bump on invalidation is what retires them.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), value...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Incr(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	m.data[key] = []byte(strconv.FormatInt(n+1, 10))
	return nil
}

// Entries returns a copy of every stored value keyed by its redis key.
func (m *Memory) Entries() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.data))
	for key, value := range m.data {
		out[key] = append([]byte(nil), value...)
	}
	return out
}

// Cache is nil-safe: a nil *Cache always calls through to the loader.
type Cache struct {
	backend Backend
	ttl     time.Duration
}

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return NewWithBackend(redisBackend{rdb: rdb}, ttl)
}

func NewWithBackend(backend Backend, ttl time.Duration) *Cache {
	return &Cache{backend: backend, ttl: ttl}
}

// generation returns the current version of family. Entries are keyed by
// it, so a fill that read the store before an invalidation lands under a
// retired key and is never served.
func (c *Cache) generation(ctx context.Context, family string) (string, error) {
	raw, err := c.backend.Get(ctx, genPrefix+family)
	if errors.Is(err, ErrMiss) {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Load returns the cached value for family, or calls load and caches its
// result. Backend failures degrade to an uncached read.
func Load[T any](ctx context.Context, c *Cache, family string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	gen, err := c.generation(ctx, family)
	if err != nil {
		slog.Warn("cache read failed", "family", family, "err", err)
		return load(ctx)
	}
	key := keyPrefix + family + ":" + gen
	raw, err := c.backend.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("cache decode failed", "key", key, "err", err)
	} else if !errors.Is(err, ErrMiss) {
		slog.Warn("cache read failed", "key", key, "err", err)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "err", err)
		return value, nil
	}
	if err := c.backend.Set(ctx, key, encoded, c.ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "err", err)
	}
	return value, nil
}

// Invalidate retires the cached entries of families.
func (c *Cache) Invalidate(ctx context.Context, families ...string) error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, family := range families {
		if err := c.backend.Incr(ctx, genPrefix+family); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
