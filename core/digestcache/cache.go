// ABOUTME: Bounded digest result cache keyed by mode and normalized text
// ABOUTME: Persisted as one JSON blob in storage and flushed periodically when dirty

package digestcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

// StorageKey is where the serialized cache lives
const StorageKey = "digest_cache"

// DefaultFlushInterval is the period of the background flush
const DefaultFlushInterval = 5 * time.Second

// Cache holds digest results for the current session.
// It is safe for concurrent use.
type Cache struct {
	storage interfaces.Storage
	logger  interfaces.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	dirty   bool
	gen     uint64
}

// New creates an empty cache. Call Load to restore persisted entries.
func New(storage interfaces.Storage, logger interfaces.Logger) *Cache {
	return &Cache{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]domain.CacheEntry),
	}
}

// WithClock replaces the clock used for entry timestamps
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Key builds the cache key for text under mode
func Key(text string, mode domain.DigestMode) string {
	sum := sha256.Sum256([]byte(normalize(text)))
	return string(mode) + ":" + hex.EncodeToString(sum[:])
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Load replaces the in-memory entries with the persisted blob.
// A missing or malformed blob leaves the cache empty.
func (c *Cache) Load(ctx context.Context) error {
	data, err := c.storage.Get(ctx, StorageKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return errors.WrapError(err, "failed to load digest cache")
	}

	entries := make(map[string]domain.CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.warn("Discarding malformed digest cache", map[string]interface{}{
			"error": err.Error(),
		})
		entries = make(map[string]domain.CacheEntry)
	}

	c.mu.Lock()
	c.entries = entries
	c.dirty = false
	c.evictLocked()
	c.mu.Unlock()
	return nil
}

// Get returns the entry for text under mode. Reads do not refresh recency.
func (c *Cache) Get(text string, mode domain.DigestMode) (domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[Key(text, mode)]
	return entry, ok
}

// Generation identifies the digest policy the entries were produced under.
// Invalidate starts a new generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// GetAt is Get for a caller pinned to gen. A stale generation always misses.
func (c *Cache) GetAt(gen uint64, text string, mode domain.DigestMode) (domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return domain.CacheEntry{}, false
	}
	entry, ok := c.entries[Key(text, mode)]
	return entry, ok
}

// SetAt is Set for a caller pinned to gen. Writes from a stale generation are dropped
// and SetAt reports false.
func (c *Cache) SetAt(gen uint64, text string, mode domain.DigestMode, result string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.setLocked(text, mode, result)
	return true
}

// Set stores result for text under mode and evicts if over the limit
func (c *Cache) Set(text string, mode domain.DigestMode, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(text, mode, result)
}

func (c *Cache) setLocked(text string, mode domain.DigestMode, result string) {
	c.entries[Key(text, mode)] = domain.CacheEntry{
		Result:    result,
		Timestamp: c.now().UnixMilli(),
	}
	c.dirty = true
	c.evictLocked()
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked keeps the CacheTrimTo newest entries once the limit is exceeded
func (c *Cache) evictLocked() {
	if len(c.entries) <= domain.CacheLimit {
		return
	}

	type keyed struct {
		key string
		ts  int64
	}
	all := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, keyed{key: k, ts: e.Timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts > all[j].ts })

	for _, k := range all[domain.CacheTrimTo:] {
		delete(c.entries, k.key)
	}
	c.dirty = true
}

// Clear drops every entry and removes the persisted blob
func (c *Cache) Clear(ctx context.Context) error {
	return c.clear(ctx, false)
}

// Invalidate clears the cache and starts a new generation, so callers pinned
// to the previous prompts or level can neither read nor write entries.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.clear(ctx, true)
}

func (c *Cache) clear(ctx context.Context, bump bool) error {
	c.mu.Lock()
	c.entries = make(map[string]domain.CacheEntry)
	c.dirty = false
	if bump {
		c.gen++
	}
	c.mu.Unlock()

	if err := c.storage.Delete(ctx, StorageKey); err != nil {
		return errors.WrapError(err, "failed to clear digest cache")
	}
	return nil
}

// FlushIfDirty persists the cache when it changed since the last flush
func (c *Cache) FlushIfDirty(ctx context.Context) error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(c.entries)
	c.dirty = false
	c.mu.Unlock()

	if err != nil {
		return errors.WrapError(err, "failed to encode digest cache")
	}

	if err := c.storage.Set(ctx, StorageKey, data); err != nil {
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
		return errors.WrapError(err, "failed to persist digest cache")
	}
	return nil
}

// Run flushes every interval until ctx is done, then flushes once more
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := c.FlushIfDirty(context.WithoutCancel(ctx)); err != nil {
				c.warn("Final digest cache flush failed", map[string]interface{}{"error": err.Error()})
			}
			return
		case <-ticker.C:
			if err := c.FlushIfDirty(ctx); err != nil {
				c.warn("Digest cache flush failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func (c *Cache) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
