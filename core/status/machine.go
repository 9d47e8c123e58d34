// ABOUTME: Digest status state machine driving the UI surface affordances
// ABOUTME: ready -> processing -> digested -> ready, with processing -> ready on failure

package status

import (
	"sync"

	"page-digest/core/domain"
	"page-digest/core/errors"
)

const (
	LabelReady      = "Ready"
	LabelProcessing = "Processing"
	LabelApplying   = "Applying cached digest"
	LabelDigested   = "Digested"
)

// Renderer receives a view on every transition
type Renderer interface {
	RenderStatus(view domain.StatusView)
}

// Machine tracks the overlay status. It is safe for concurrent use.
type Machine struct {
	renderer Renderer

	mu        sync.Mutex
	status    domain.OverlayStatus
	mode      domain.DigestMode
	fromCache bool
}

// New creates a Machine in the ready state and renders it
func New(renderer Renderer) *Machine {
	m := &Machine{renderer: renderer, status: domain.StatusReady}
	m.render(m.view())
	return m
}

// Begin moves to processing. It fails with ErrBusy while already processing.
func (m *Machine) Begin(mode domain.DigestMode, fromCache bool) error {
	m.mu.Lock()
	if m.status == domain.StatusProcessing {
		m.mu.Unlock()
		return errors.ErrBusy
	}
	m.status = domain.StatusProcessing
	m.mode = mode
	m.fromCache = fromCache
	v := m.view()
	m.mu.Unlock()

	m.render(v)
	return nil
}

// Succeed moves from processing to digested
func (m *Machine) Succeed() {
	m.transition(domain.StatusProcessing, domain.StatusDigested)
}

// Fail moves from processing back to ready
func (m *Machine) Fail() {
	m.transition(domain.StatusProcessing, domain.StatusReady)
}

// Restore moves from digested back to ready
func (m *Machine) Restore() bool {
	return m.transition(domain.StatusDigested, domain.StatusReady)
}

func (m *Machine) transition(from, to domain.OverlayStatus) bool {
	m.mu.Lock()
	if m.status != from {
		m.mu.Unlock()
		return false
	}
	m.status = to
	m.fromCache = false
	if to == domain.StatusReady {
		m.mode = ""
	}
	v := m.view()
	m.mu.Unlock()

	m.render(v)
	return true
}

// Status returns the current status
func (m *Machine) Status() domain.OverlayStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// View returns the current view
func (m *Machine) View() domain.StatusView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view()
}

func (m *Machine) view() domain.StatusView {
	v := domain.StatusView{Status: m.status, Mode: m.mode}
	switch m.status {
	case domain.StatusReady:
		v.Label = LabelReady
		v.DigestEnabled = true
	case domain.StatusProcessing:
		v.FromCache = m.fromCache
		v.Label = LabelProcessing
		if m.fromCache {
			v.Label = LabelApplying
		}
	case domain.StatusDigested:
		v.Label = LabelDigested
		v.DigestEnabled = true
		v.RestoreEnabled = true
		v.ActiveMode = m.mode
	}
	return v
}

func (m *Machine) render(v domain.StatusView) {
	if m.renderer != nil {
		m.renderer.RenderStatus(v)
	}
}
