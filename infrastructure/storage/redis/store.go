// ABOUTME: Redis storage implementation using go-redis client
// ABOUTME: Shares settings, usage counters and the digest cache across processes

package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"page-digest/core/errors"
	"page-digest/pkg/config"
)

// DefaultKeyPrefix namespaces every key this store writes
const DefaultKeyPrefix = "page-digest:"

// Store implements the Storage interface using Redis
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection
func NewStore(cfg config.RedisConfig) (*Store, error) {
	if cfg.Address == "" {
		return nil, stderrors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &Store{client: client, prefix: prefix}, nil
}

// Get retrieves a value from Redis
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &errors.NotFoundError{Resource: "key", ID: key}
		}
		return nil, err
	}
	return val, nil
}

// Set stores a value in Redis without expiration
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Delete removes a key from Redis. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
