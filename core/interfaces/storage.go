// Package interfaces defines the contracts between the digest pipeline and its collaborators.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import "context"

// Storage is the persistent key/value collaborator holding settings, secrets,
// usage counters and the serialized digest cache.
// Implementations can be in-memory, Redis, SQLite, or anything else.
//
// Example usage:
//
//	// Store a value
//	err := storage.Set(ctx, "simplification_level", []byte("balanced"))
//
//	// Retrieve a value
//	data, err := storage.Get(ctx, "simplification_level")
//	if errors.IsNotFound(err) {
//		// fall back to the default
//	}
//
//	// Delete a value
//	err = storage.Delete(ctx, "api_key")
type Storage interface {
	// Get retrieves a value by key.
	// Returns a *errors.NotFoundError if the key has never been set.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
