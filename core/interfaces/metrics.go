package interfaces

import "time"

// Metrics records pipeline activity. A nil Metrics disables recording.
type Metrics interface {
	// DigestCompleted counts a finished digest request by mode and outcome kind.
	DigestCompleted(mode string, outcome string)

	// CacheHit counts a digest served from the cache.
	CacheHit(mode string)

	// TokensUsed adds backend-reported token usage.
	TokensUsed(input, output int64)

	// BackendLatency observes the duration of one backend call.
	BackendLatency(d time.Duration)
}
