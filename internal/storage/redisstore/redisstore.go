// Package redisstore persists the engine snapshot in Redis under a
// single key.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the default Redis key the snapshot lives under.
const DefaultKey = "loghive:state"

// Config configures the Redis store.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password is optional.
	Password string

	// DB selects the logical database.
	DB int

	// Key overrides DefaultKey. Distinct pipelines sharing one server
	// must use distinct keys.
	Key string
}

// Store is a Redis-backed snapshot store.
type Store struct {
	client *redis.Client
	key    string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redisstore: addr is required")
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: ping %s: %w", cfg.Addr, err)
	}

	return &Store{client: client, key: key}, nil
}

// Load returns the stored snapshot, or (nil, nil) when the key does not
// exist.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", s.key, err)
	}
	return data, nil
}

// Save replaces the stored snapshot. The key never expires.
func (s *Store) Save(ctx context.Context, state []byte) error {
	if err := s.client.Set(ctx, s.key, state, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", s.key, err)
	}
	return nil
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
