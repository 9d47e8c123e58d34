package digestcache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"page-digest/core/domain"
)

// steppingClock returns a clock that advances one millisecond per call
func steppingClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New(newMockStorage(), nil)

	c.Set("some text", domain.ModeLarge, "digest")

	entry, ok := c.Get("some text", domain.ModeLarge)
	if !ok || entry.Result != "digest" {
		t.Errorf("Get() = %+v, %v; want digest, true", entry, ok)
	}
	if entry.Timestamp == 0 {
		t.Error("Timestamp should be set")
	}

	if _, ok := c.Get("never set", domain.ModeLarge); ok {
		t.Error("Get() for a never-set key should miss")
	}
}

func TestCache_ModesAreSeparate(t *testing.T) {
	c := New(newMockStorage(), nil)
	c.Set("text", domain.ModeLarge, "large digest")

	if _, ok := c.Get("text", domain.ModeSmall); ok {
		t.Error("small mode should not see the large entry")
	}
}

func TestCache_KeyNormalizesWhitespace(t *testing.T) {
	if Key("  a \n b\t", domain.ModeSmall) != Key("a b", domain.ModeSmall) {
		t.Error("whitespace variants should share a key")
	}
	if Key("a b", domain.ModeSmall) == Key("a b", domain.ModeLarge) {
		t.Error("keys must include the mode")
	}
}

func TestCache_EvictsToNewestThirty(t *testing.T) {
	c := New(newMockStorage(), nil).WithClock(steppingClock())

	for i := 0; i < 51; i++ {
		c.Set(fmt.Sprintf("text %d", i), domain.ModeLarge, fmt.Sprintf("r%d", i))
	}

	if c.Len() != domain.CacheTrimTo {
		t.Fatalf("Len() = %d, want %d", c.Len(), domain.CacheTrimTo)
	}
	for i := 0; i < 21; i++ {
		if _, ok := c.Get(fmt.Sprintf("text %d", i), domain.ModeLarge); ok {
			t.Errorf("entry %d should have been evicted", i)
		}
	}
	for i := 21; i < 51; i++ {
		if _, ok := c.Get(fmt.Sprintf("text %d", i), domain.ModeLarge); !ok {
			t.Errorf("entry %d should have been kept", i)
		}
	}
}

func TestCache_FiftyEntriesNotEvicted(t *testing.T) {
	c := New(newMockStorage(), nil).WithClock(steppingClock())
	for i := 0; i < domain.CacheLimit; i++ {
		c.Set(fmt.Sprintf("text %d", i), domain.ModeSmall, "r")
	}
	if c.Len() != domain.CacheLimit {
		t.Errorf("Len() = %d, want %d", c.Len(), domain.CacheLimit)
	}
}

func TestCache_FlushIfDirty(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	c := New(storage, nil)

	if err := c.FlushIfDirty(ctx); err != nil {
		t.Fatalf("FlushIfDirty() error = %v", err)
	}
	if storage.sets != 0 {
		t.Error("clean cache should not be written")
	}

	c.Set("text", domain.ModeSmall, "digest")
	if err := c.FlushIfDirty(ctx); err != nil {
		t.Fatalf("FlushIfDirty() error = %v", err)
	}
	if err := c.FlushIfDirty(ctx); err != nil {
		t.Fatalf("FlushIfDirty() error = %v", err)
	}
	if storage.sets != 1 {
		t.Errorf("sets = %d, want 1", storage.sets)
	}

	var persisted map[string]domain.CacheEntry
	if err := json.Unmarshal(storage.data[StorageKey], &persisted); err != nil {
		t.Fatalf("persisted blob is not JSON: %v", err)
	}
	if persisted[Key("text", domain.ModeSmall)].Result != "digest" {
		t.Errorf("persisted = %+v", persisted)
	}
}

func TestCache_FlushFailureStaysDirty(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.setErr = stderrors.New("disk full")
	c := New(storage, nil)
	c.Set("text", domain.ModeSmall, "digest")

	if err := c.FlushIfDirty(ctx); err == nil {
		t.Fatal("FlushIfDirty() should return the storage error")
	}

	storage.setErr = nil
	if err := c.FlushIfDirty(ctx); err != nil {
		t.Fatalf("FlushIfDirty() error = %v", err)
	}
	if storage.sets != 1 {
		t.Errorf("sets = %d, want 1 after retry", storage.sets)
	}
}

func TestCache_LoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()

	first := New(storage, nil)
	first.Set("text", domain.ModeLarge, "digest")
	if err := first.FlushIfDirty(ctx); err != nil {
		t.Fatal(err)
	}

	second := New(storage, nil)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if entry, ok := second.Get("text", domain.ModeLarge); !ok || entry.Result != "digest" {
		t.Errorf("Get() after Load = %+v, %v", entry, ok)
	}
}

func TestCache_LoadMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	logger := &mockLogger{}
	c := New(storage, logger)

	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load() with nothing stored error = %v", err)
	}

	storage.data[StorageKey] = []byte("{not json")
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load() with malformed blob error = %v", err)
	}
	if c.Len() != 0 {
		t.Error("malformed blob should leave the cache empty")
	}
	if len(logger.warns) != 1 {
		t.Errorf("warns = %v, want one warning", logger.warns)
	}
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	c := New(storage, nil)
	c.Set("text", domain.ModeLarge, "digest")
	_ = c.FlushIfDirty(ctx)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if c.Len() != 0 {
		t.Error("Clear() should empty the cache")
	}
	if _, ok := storage.data[StorageKey]; ok {
		t.Error("Clear() should delete the persisted blob")
	}
}

func TestCache_InvalidateFencesStaleGeneration(t *testing.T) {
	ctx := context.Background()
	c := New(newMockStorage(), nil)
	old := c.Generation()
	c.Set("text", domain.ModeSmall, "digest")

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if c.Len() != 0 {
		t.Error("Invalidate() should empty the cache")
	}

	if c.SetAt(old, "text", domain.ModeSmall, "stale") {
		t.Error("SetAt() with a stale generation should be dropped")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after stale write, want 0", c.Len())
	}

	current := c.Generation()
	if current == old {
		t.Fatal("Invalidate() should start a new generation")
	}
	if !c.SetAt(current, "text", domain.ModeSmall, "fresh") {
		t.Error("SetAt() with the current generation should store")
	}
	if _, ok := c.GetAt(old, "text", domain.ModeSmall); ok {
		t.Error("GetAt() with a stale generation should miss")
	}
	if e, ok := c.GetAt(current, "text", domain.ModeSmall); !ok || e.Result != "fresh" {
		t.Errorf("GetAt() = %+v, %v", e, ok)
	}
}

func TestCache_ClearKeepsGeneration(t *testing.T) {
	c := New(newMockStorage(), nil)
	gen := c.Generation()

	if err := c.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Generation() != gen {
		t.Error("Clear() should not start a new generation")
	}
}

func TestCache_RunFlushesOnCancel(t *testing.T) {
	storage := newMockStorage()
	c := New(storage, nil)
	c.Set("text", domain.ModeLarge, "digest")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if storage.sets != 1 {
		t.Errorf("sets = %d, want a final flush", storage.sets)
	}
}
