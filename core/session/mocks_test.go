package session

import (
	"context"
	"sync"
	"time"

	"page-digest/core/domain"
	"page-digest/core/errors"
)

// mockSurface records everything rendered
type mockSurface struct {
	mu          sync.Mutex
	views       []domain.StatusView
	results     []string
	containers  []bool
	errs        []errors.Kind
	clears      int
	credentials int
}

func (m *mockSurface) RenderStatus(v domain.StatusView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, v)
}

func (m *mockSurface) RenderResult(text string, mode domain.DigestMode, hasContainer bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, text)
	m.containers = append(m.containers, hasContainer)
}

func (m *mockSurface) RenderError(kind errors.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, kind)
}

func (m *mockSurface) ClearResult() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
}

func (m *mockSurface) RequestCredential() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials++
}

// mockDigester is a mock implementation of the Digester interface
type mockDigester struct {
	cached     bool
	calls      int
	lastText   string
	digestFunc func(ctx context.Context, text string, mode domain.DigestMode) (domain.DigestResult, error)
}

func (m *mockDigester) Digest(ctx context.Context, text string, mode domain.DigestMode) (domain.DigestResult, error) {
	m.calls++
	m.lastText = text
	if m.digestFunc != nil {
		return m.digestFunc(ctx, text, mode)
	}
	return domain.DigestResult{Text: "digest of " + string(mode), Mode: mode, FromCache: m.cached}, nil
}

func (m *mockDigester) Cached(text string, mode domain.DigestMode) bool {
	return m.cached
}

// mockMetrics records outcomes
type mockMetrics struct {
	outcomes []string
}

func (m *mockMetrics) DigestCompleted(mode, outcome string) {
	m.outcomes = append(m.outcomes, mode+":"+outcome)
}
func (m *mockMetrics) CacheHit(mode string)           {}
func (m *mockMetrics) TokensUsed(input, output int64) {}
func (m *mockMetrics) BackendLatency(d time.Duration) {}
