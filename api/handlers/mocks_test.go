package handlers

import (
	"context"
	"sync"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
	"page-digest/core/summarize"
	"page-digest/infrastructure/dom"
)

// mockSession renders to the surface it was opened with, like the real controller
type mockSession struct {
	mu       sync.Mutex
	surface  interfaces.Surface
	err      error
	restored bool
	modes    []domain.DigestMode
}

func (m *mockSession) RequestDigest(ctx context.Context, mode domain.DigestMode) (domain.DigestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes = append(m.modes, mode)
	if m.err != nil {
		m.surface.RenderError(errors.Classify(m.err))
		return domain.DigestResult{}, m.err
	}
	m.surface.RenderResult("digest of the page", mode, true)
	m.surface.RenderStatus(domain.StatusView{Status: domain.StatusDigested, Mode: mode, Label: "Digested", RestoreEnabled: true})
	return domain.DigestResult{Text: "digest of the page", Mode: mode}, nil
}

func (m *mockSession) Restore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.restored {
		return false
	}
	m.surface.ClearResult()
	m.surface.RenderStatus(domain.StatusView{Status: domain.StatusReady, Label: "Ready", DigestEnabled: true})
	return true
}

func (m *mockSession) Status() domain.StatusView {
	return domain.StatusView{}
}

type mockOpener struct {
	session  *mockSession
	autoRun  bool
	err      error
	lastHost string
	lastDoc  interfaces.Document
}

func (m *mockOpener) OpenPage(ctx context.Context, host string, doc interfaces.Document, surface interfaces.Surface) (Session, bool, error) {
	m.lastHost = host
	m.lastDoc = doc
	if m.err != nil {
		return nil, false, m.err
	}
	m.session.surface = surface
	surface.RenderStatus(domain.StatusView{Status: domain.StatusReady, Label: "Ready", DigestEnabled: true})
	return m.session, m.autoRun, nil
}

type mockLoader struct {
	doc     *dom.Document
	err     error
	lastURL string
	calls   int
}

func (m *mockLoader) Load(ctx context.Context, targetURL string) (*dom.Document, error) {
	m.calls++
	m.lastURL = targetURL
	return m.doc, m.err
}

type mockUsageService struct {
	report   summarize.UsageReport
	size     int
	resets   int
	clears   int
	resetErr error
}

func (m *mockUsageService) Usage() summarize.UsageReport { return m.report }
func (m *mockUsageService) CacheSize() int                { return m.size }

func (m *mockUsageService) ResetUsage(ctx context.Context) error {
	m.resets++
	return m.resetErr
}

func (m *mockUsageService) ClearCache(ctx context.Context) error {
	m.clears++
	m.size = 0
	return nil
}
