// ABOUTME: Service interfaces for the core pipeline
// ABOUTME: Defines contracts the session controller uses to reach the orchestrator

package interfaces

import (
	"context"

	"page-digest/core/domain"
)

// Digester produces digests for text under a mode
type Digester interface {
	// Digest returns the digest of text, from the cache or the backend.
	Digest(ctx context.Context, text string, mode domain.DigestMode) (domain.DigestResult, error)

	// Cached reports whether Digest would be served from the cache.
	Cached(text string, mode domain.DigestMode) bool
}
