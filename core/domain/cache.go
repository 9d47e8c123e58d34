// ABOUTME: Digest cache entry model and capacity constants
// ABOUTME: Entries are keyed by mode and normalized input text

package domain

const (
	// CacheLimit is the entry count above which the cache is trimmed
	CacheLimit = 50

	// CacheTrimTo is the number of most recently written entries kept after a trim
	CacheTrimTo = 30
)

// CacheEntry is one cached digest result
type CacheEntry struct {
	Result    string `json:"result"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds of the last write
}

// DigestResult is what the orchestrator returns for a single digest call
type DigestResult struct {
	Text      string
	Mode      DigestMode
	FromCache bool
	Usage     *UsageCounters // tokens reported by this call, nil on cache hits
}
