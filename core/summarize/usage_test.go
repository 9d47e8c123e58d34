package summarize

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"page-digest/core/domain"
)

func TestUsageTracker_AddAndDebouncedSave(t *testing.T) {
	storage := newMockStorage()
	tracker := NewUsageTracker(storage, nil, 20*time.Millisecond)

	tracker.Add(domain.UsageBucketDigest, 10, 2)
	tracker.Add(domain.UsageBucketDigest, 5, 1)

	if storage.setCount() != 0 {
		t.Fatal("counters should not be written before the debounce elapses")
	}

	deadline := time.Now().Add(2 * time.Second)
	for storage.setCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if storage.setCount() != 1 {
		t.Fatalf("sets = %d, want 1 debounced write", storage.setCount())
	}

	stored, _ := storage.Get(context.Background(), UsageStorageKey)
	var buckets map[string]domain.UsageCounters
	if err := json.Unmarshal(stored, &buckets); err != nil {
		t.Fatal(err)
	}
	if buckets[domain.UsageBucketDigest] != (domain.UsageCounters{Input: 15, Output: 3, Calls: 2}) {
		t.Errorf("stored = %+v", buckets)
	}
}

func TestUsageTracker_LoadAndReset(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.data[UsageStorageKey] = []byte(`{"digest":{"input":100,"output":50,"calls":3}}`)

	tracker := NewUsageTracker(storage, nil, time.Hour)
	if err := tracker.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tracker.Totals(domain.UsageBucketDigest).Calls != 3 {
		t.Errorf("Totals = %+v", tracker.Totals(domain.UsageBucketDigest))
	}

	if err := tracker.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if tracker.Totals(domain.UsageBucketDigest) != (domain.UsageCounters{}) {
		t.Error("Reset() should zero counters")
	}
	if string(storage.data[UsageStorageKey]) != "{}" {
		t.Errorf("stored after reset = %s", storage.data[UsageStorageKey])
	}
}

func TestUsageTracker_LoadMalformed(t *testing.T) {
	storage := newMockStorage()
	storage.data[UsageStorageKey] = []byte("garbage")
	logger := &mockLogger{}

	tracker := NewUsageTracker(storage, logger, time.Hour)
	if err := tracker.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(logger.warns) != 1 {
		t.Errorf("warns = %v", logger.warns)
	}
}

func TestUsageTracker_CloseFlushes(t *testing.T) {
	storage := newMockStorage()
	tracker := NewUsageTracker(storage, nil, time.Hour)
	tracker.Add(domain.UsageBucketDigest, 1, 1)

	if err := tracker.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if storage.setCount() != 1 {
		t.Errorf("sets = %d, want 1", storage.setCount())
	}
}

func TestReport_Cost(t *testing.T) {
	counters := domain.UsageCounters{Input: 1_000_000, Output: 500_000, Calls: 4}
	report := Report(counters, domain.DefaultPricing(), "gpt-4o-mini")

	want := 0.15 + 0.30
	if math.Abs(report.Cost-want) > 1e-9 {
		t.Errorf("Cost = %v, want %v", report.Cost, want)
	}

	unknown := Report(counters, domain.DefaultPricing(), "unknown-model")
	if unknown.Pricing.Model != "gpt-4o-mini" {
		t.Errorf("unknown model should fall back to the first entry, got %q", unknown.Pricing.Model)
	}
}
