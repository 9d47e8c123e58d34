// ABOUTME: Surface that records what the pipeline renders for one page
// ABOUTME: HTTP clients poll the recorded view instead of watching a live overlay

package handlers

import (
	"sync"

	"page-digest/core/domain"
	"page-digest/core/errors"
)

// ResultView is the last digest rendered for a page
type ResultView struct {
	Text         string            `json:"text"`
	Mode         domain.DigestMode `json:"mode"`
	HasContainer bool              `json:"hasContainer" doc:"True when the digest replaced the article container"`
}

// ErrorView is the last error rendered for a page
type ErrorView struct {
	Kind          errors.Kind `json:"kind"`
	Message       string      `json:"message"`
	Informational bool        `json:"informational"`
}

type recordingSurface struct {
	mu                  sync.Mutex
	status              domain.StatusView
	result              *ResultView
	err                 *ErrorView
	credentialRequested bool
}

func (s *recordingSurface) RenderStatus(v domain.StatusView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = v
}

func (s *recordingSurface) RenderResult(text string, mode domain.DigestMode, hasContainer bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &ResultView{Text: text, Mode: mode, HasContainer: hasContainer}
	s.err = nil
}

func (s *recordingSurface) RenderError(kind errors.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = &ErrorView{
		Kind:          kind,
		Message:       errors.UserMessage(kind),
		Informational: errors.IsInformational(kind),
	}
}

func (s *recordingSurface) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
}

func (s *recordingSurface) RequestCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentialRequested = true
}

func (s *recordingSurface) fill(v *PageView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.Status = s.status
	v.CredentialRequested = s.credentialRequested
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	if s.err != nil {
		e := *s.err
		v.Error = &e
	}
}
