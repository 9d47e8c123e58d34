// ABOUTME: In-memory storage implementation backed by patrickmn/go-cache
// ABOUTME: Values never expire; used for tests, the CLI default and single-process servers

package memory

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"page-digest/core/errors"
)

// Store implements the Storage interface in process memory
type Store struct {
	items *gocache.Cache
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a copy of the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, ok := s.items.Get(key)
	if !ok {
		return nil, &errors.NotFoundError{Resource: "key", ID: key}
	}

	value := v.([]byte)
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Set stores a copy of value under key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.items.Set(key, valueCopy, gocache.NoExpiration)
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.items.Delete(key)
	return nil
}

// Len returns the number of stored keys
func (s *Store) Len() int {
	return s.items.ItemCount()
}
