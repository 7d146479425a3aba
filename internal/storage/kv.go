// Package storage holds the durable key-value backends that domain stores
// snapshot themselves into.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a durable byte store keyed by snapshot name.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string // "file" or "redis"
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the backend named by opts.Backend. The returned close func
// releases any connection it holds.
func Open(opts Options, log *zap.Logger) (KV, func() error, error) {
	switch opts.Backend {
	case "", "file":
		kv, err := NewFileKV(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() error { return nil }, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn("unable to reach redis", zap.String("addr", opts.RedisAddr), zap.Error(err))
		}
		return NewRedisKV(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

// MemoryKV keeps snapshots in process memory.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
