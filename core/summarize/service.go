// ABOUTME: Summarization orchestrator turns extracted text into a digest
// ABOUTME: Cache lookup, one backend call, usage accounting, post-processing and cache write

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"page-digest/core/digestcache"
	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

const maxErrorBody = 4 << 10

// Service digests text for one settings snapshot.
// Concurrent calls for the same text are not de-duplicated.
type Service struct {
	cfg      Config
	settings domain.Settings
	cache    *digestcache.Cache
	gen      uint64
	usage    *UsageTracker
	deps     interfaces.Dependencies
	prompter interfaces.CredentialPrompter
}

// NewService creates a Service. prompter may be nil.
func NewService(
	cfg Config,
	settings domain.Settings,
	cache *digestcache.Cache,
	usage *UsageTracker,
	deps interfaces.Dependencies,
	prompter interfaces.CredentialPrompter,
) *Service {
	return &Service{
		cfg:      cfg.withDefaults(),
		settings: settings,
		cache:    cache,
		gen:      cache.Generation(),
		usage:    usage,
		deps:     deps,
		prompter: prompter,
	}
}

// Cached reports whether Digest would be answered from the cache
func (s *Service) Cached(text string, mode domain.DigestMode) bool {
	_, ok := s.cache.GetAt(s.gen, text, mode)
	return ok
}

// Digest returns the digest of text in mode
func (s *Service) Digest(ctx context.Context, text string, mode domain.DigestMode) (domain.DigestResult, error) {
	if !mode.Valid() {
		return domain.DigestResult{}, &errors.ValidationError{Field: "mode", Message: fmt.Sprintf("unknown digest mode %q", mode)}
	}
	if strings.TrimSpace(text) == "" {
		return domain.DigestResult{}, errors.ErrNothingToDigest
	}

	if !s.settings.HasCredential() {
		if s.prompter != nil {
			s.prompter.RequestCredential()
		}
		return domain.DigestResult{}, errors.ErrCredentialMissing
	}

	if entry, ok := s.cache.GetAt(s.gen, text, mode); ok {
		if s.deps.Metrics != nil {
			s.deps.Metrics.CacheHit(string(mode))
		}
		s.debug("Digest served from cache", map[string]interface{}{"mode": string(mode)})
		return domain.DigestResult{Text: entry.Result, Mode: mode, FromCache: true}, nil
	}

	resp, err := s.call(ctx, buildRequest(s.cfg, s.settings, text, mode))
	if err != nil {
		return domain.DigestResult{}, err
	}

	result := domain.DigestResult{Mode: mode}
	if resp.Usage != nil {
		in, out := resp.Usage.input(), resp.Usage.output()
		if in == 0 && out == 0 {
			s.warn("Backend reported zero token usage", map[string]interface{}{"mode": string(mode)})
		}
		s.usage.Add(domain.UsageBucketDigest, in, out)
		if s.deps.Metrics != nil {
			s.deps.Metrics.TokensUsed(in, out)
		}
		result.Usage = &domain.UsageCounters{Input: in, Output: out, Calls: 1}
	}

	raw := resp.text()
	if strings.TrimSpace(raw) == "" {
		return domain.DigestResult{}, errors.ErrNoOutput
	}
	result.Text = postProcess(raw)
	if result.Text == "" {
		return domain.DigestResult{}, errors.ErrNoOutput
	}

	if !s.cache.SetAt(s.gen, text, mode, result.Text) {
		s.debug("Digest not cached, settings changed since the session opened", map[string]interface{}{"mode": string(mode)})
	}
	return result, nil
}

// call performs exactly one POST, detached from caller cancellation and bounded by the configured timeout
func (s *Service) call(ctx context.Context, req request) (response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return response{}, errors.WrapError(err, "failed to encode backend request")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	headers := map[string]string{
		"Authorization": "Bearer " + strings.TrimSpace(s.settings.Credential),
		"Content-Type":  "application/json",
	}

	start := time.Now()
	resp, err := s.deps.HTTPClient.Post(ctx, s.cfg.Endpoint, bytes.NewReader(body), headers)
	if s.deps.Metrics != nil {
		s.deps.Metrics.BackendLatency(time.Since(start))
	}
	if err != nil {
		s.warn("Backend request failed", map[string]interface{}{"error": err.Error()})
		return response{}, &errors.ExternalAPIError{API: apiName, Message: err.Error()}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		msg := errorMessage(resp.Body())
		s.warn("Backend returned an error status", map[string]interface{}{
			"status": resp.StatusCode(),
			"error":  msg,
		})
		return response{}, &errors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: msg, API: apiName}
	}

	var out response
	if err := json.NewDecoder(resp.Body()).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return response{}, &errors.ExternalAPIError{API: apiName, Message: ctx.Err().Error()}
		}
		return response{}, errors.WrapError(err, "failed to decode backend response")
	}
	return out, nil
}

// errorMessage pulls error.message out of an error body, falling back to the raw text
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(data))
}

func (s *Service) debug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

func (s *Service) warn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}
