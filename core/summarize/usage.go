// ABOUTME: Usage tracker accumulates backend token counts per bucket
// ABOUTME: Counters persist with a trailing debounce and are only reset on explicit request

package summarize

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

// UsageStorageKey is where counters are persisted
const UsageStorageKey = "usage_counters"

// DefaultUsageDebounce is the quiet period before counters are persisted
const DefaultUsageDebounce = time.Second

// UsageTracker holds monotonic token counters. It is safe for concurrent use.
type UsageTracker struct {
	storage  interfaces.Storage
	logger   interfaces.Logger
	debounce time.Duration

	mu      sync.Mutex
	buckets map[string]domain.UsageCounters
	dirty   bool
	timer   *time.Timer
	closed  bool
}

// NewUsageTracker creates a tracker with empty counters
func NewUsageTracker(storage interfaces.Storage, logger interfaces.Logger, debounce time.Duration) *UsageTracker {
	if debounce <= 0 {
		debounce = DefaultUsageDebounce
	}
	return &UsageTracker{
		storage:  storage,
		logger:   logger,
		debounce: debounce,
		buckets:  make(map[string]domain.UsageCounters),
	}
}

// Load restores persisted counters. Malformed data is discarded with a warning.
func (t *UsageTracker) Load(ctx context.Context) error {
	data, err := t.storage.Get(ctx, UsageStorageKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return errors.WrapError(err, "failed to load usage counters")
	}

	buckets := make(map[string]domain.UsageCounters)
	if err := json.Unmarshal(data, &buckets); err != nil {
		if t.logger != nil {
			t.logger.Warn("Discarding malformed usage counters", map[string]interface{}{
				"error": err.Error(),
			})
		}
		buckets = make(map[string]domain.UsageCounters)
	}

	t.mu.Lock()
	t.buckets = buckets
	t.mu.Unlock()
	return nil
}

// Add accrues one call's usage into bucket and schedules a save
func (t *UsageTracker) Add(bucket string, input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.buckets[bucket]
	c.Input += input
	c.Output += output
	c.Calls++
	t.buckets[bucket] = c
	t.dirty = true
	t.scheduleLocked()
}

func (t *UsageTracker) scheduleLocked() {
	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Reset(t.debounce)
		return
	}
	t.timer = time.AfterFunc(t.debounce, func() {
		if err := t.Flush(context.Background()); err != nil && t.logger != nil {
			t.logger.Warn("Failed to persist usage counters", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
}

// Totals returns the counters of bucket
func (t *UsageTracker) Totals(bucket string) domain.UsageCounters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets[bucket]
}

// Reset zeroes every bucket and persists immediately
func (t *UsageTracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	t.buckets = make(map[string]domain.UsageCounters)
	t.dirty = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	return t.Flush(ctx)
}

// Flush persists counters if they changed
func (t *UsageTracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(t.buckets)
	t.dirty = false
	t.mu.Unlock()

	if err != nil {
		return errors.WrapError(err, "failed to encode usage counters")
	}
	if err := t.storage.Set(ctx, UsageStorageKey, data); err != nil {
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		return errors.WrapError(err, "failed to persist usage counters")
	}
	return nil
}

// Close stops the debounce timer and flushes pending counters
func (t *UsageTracker) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	return t.Flush(ctx)
}

// UsageReport is a bucket's counters priced against the pricing table
type UsageReport struct {
	Counters domain.UsageCounters `json:"counters"`
	Pricing  domain.PricingEntry  `json:"pricing"`
	Cost     float64              `json:"cost"`
}

// Report prices counters for model. Unknown models use the first table entry.
func Report(counters domain.UsageCounters, table []domain.PricingEntry, model string) UsageReport {
	price, _ := domain.FindPricing(table, model)
	return UsageReport{
		Counters: counters,
		Pricing:  price,
		Cost:     domain.Cost(counters, price),
	}
}
