package session

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/extract"
	"page-digest/core/interfaces"
	"page-digest/infrastructure/dom"
)

var articleHTML = `<article><h1>An article headline here</h1><p>` +
	strings.Repeat("Body text of the article. ", 4) + `</p></article>`

func newController(t *testing.T, html string, digester *mockDigester) (*Controller, *mockSurface, *mockMetrics) {
	t.Helper()
	doc, err := dom.ParseString(html)
	if err != nil {
		t.Fatal(err)
	}
	surface := &mockSurface{}
	metrics := &mockMetrics{}
	c := NewController(doc, extract.New(false), digester, surface, interfaces.Dependencies{Metrics: metrics})
	return c, surface, metrics
}

func TestController_RequestDigest(t *testing.T) {
	digester := &mockDigester{}
	c, surface, metrics := newController(t, articleHTML, digester)

	result, err := c.RequestDigest(context.Background(), domain.ModeLarge)
	if err != nil {
		t.Fatalf("RequestDigest() error = %v", err)
	}
	if result.Text != "digest of large" {
		t.Errorf("result = %+v", result)
	}
	if len(surface.results) != 1 || !surface.containers[0] {
		t.Errorf("results = %v, containers = %v", surface.results, surface.containers)
	}

	statuses := []domain.OverlayStatus{}
	for _, v := range surface.views {
		statuses = append(statuses, v.Status)
	}
	want := []domain.OverlayStatus{domain.StatusReady, domain.StatusProcessing, domain.StatusDigested}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("statuses = %v, want %v", statuses, want)
		}
	}

	article, ok := c.Article()
	if !ok || article.Mode != domain.ModeLarge || article.Source != extract.SourceArticle || article.Title == nil {
		t.Errorf("Article() = %+v, %v", article, ok)
	}
	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != "large:success" {
		t.Errorf("outcomes = %v", metrics.outcomes)
	}
}

func TestController_RateLimitedReturnsToReady(t *testing.T) {
	digester := &mockDigester{digestFunc: func(context.Context, string, domain.DigestMode) (domain.DigestResult, error) {
		return domain.DigestResult{}, &errors.ExternalAPIError{StatusCode: 429, API: "summarize"}
	}}
	c, surface, _ := newController(t, articleHTML, digester)

	if _, err := c.RequestDigest(context.Background(), domain.ModeSmall); err == nil {
		t.Fatal("RequestDigest() should return the backend error")
	}
	if c.Status().Status != domain.StatusReady {
		t.Errorf("status = %v, want ready", c.Status().Status)
	}
	if len(surface.errs) != 1 || surface.errs[0] != errors.KindRateLimited {
		t.Errorf("errs = %v, want rate limited", surface.errs)
	}
	if _, ok := c.Article(); ok {
		t.Error("a failed digest must not set article state")
	}
}

func TestController_UnauthorizedPromptsForCredential(t *testing.T) {
	digester := &mockDigester{digestFunc: func(context.Context, string, domain.DigestMode) (domain.DigestResult, error) {
		return domain.DigestResult{}, &errors.ExternalAPIError{StatusCode: 401}
	}}
	c, surface, _ := newController(t, articleHTML, digester)

	_, _ = c.RequestDigest(context.Background(), domain.ModeSmall)
	if surface.credentials != 1 {
		t.Errorf("credential prompts = %d, want 1", surface.credentials)
	}
}

func TestController_NothingToDigest(t *testing.T) {
	digester := &mockDigester{}
	c, surface, _ := newController(t, `<div><p>short</p></div>`, digester)

	_, err := c.RequestDigest(context.Background(), domain.ModeLarge)
	if !stderrors.Is(err, errors.ErrNothingToDigest) {
		t.Fatalf("RequestDigest() error = %v, want ErrNothingToDigest", err)
	}
	if digester.calls != 0 {
		t.Error("digester should not be called")
	}
	if len(surface.errs) != 1 || surface.errs[0] != errors.KindNothingToDigest {
		t.Errorf("errs = %v", surface.errs)
	}
	if len(surface.views) != 1 {
		t.Errorf("status should stay ready without transitions, views = %v", surface.views)
	}
}

func TestController_BusyRejected(t *testing.T) {
	var c *Controller
	var nested error
	digester := &mockDigester{}
	digester.digestFunc = func(ctx context.Context, text string, mode domain.DigestMode) (domain.DigestResult, error) {
		_, nested = c.RequestDigest(ctx, domain.ModeSmall)
		return domain.DigestResult{Text: "done", Mode: mode}, nil
	}
	c, _, _ = newController(t, articleHTML, digester)

	if _, err := c.RequestDigest(context.Background(), domain.ModeLarge); err != nil {
		t.Fatalf("RequestDigest() error = %v", err)
	}
	if !stderrors.Is(nested, errors.ErrBusy) {
		t.Errorf("nested request error = %v, want ErrBusy", nested)
	}
	if c.Status().Status != domain.StatusDigested {
		t.Errorf("status = %v, want digested", c.Status().Status)
	}
}

func TestController_CachedLabel(t *testing.T) {
	c, surface, _ := newController(t, articleHTML, &mockDigester{cached: true})

	if _, err := c.RequestDigest(context.Background(), domain.ModeLarge); err != nil {
		t.Fatal(err)
	}
	if !surface.views[1].FromCache {
		t.Errorf("processing view = %+v, want fromCache", surface.views[1])
	}
}

func TestController_Restore(t *testing.T) {
	c, surface, _ := newController(t, articleHTML, &mockDigester{})

	if c.Restore() {
		t.Error("Restore() with nothing digested should be false")
	}

	_, _ = c.RequestDigest(context.Background(), domain.ModeSmall)
	if !c.Restore() {
		t.Fatal("Restore() should succeed after a digest")
	}
	if surface.clears != 1 {
		t.Errorf("clears = %d, want 1", surface.clears)
	}
	if _, ok := c.Article(); ok {
		t.Error("Restore() should drop the article state")
	}
	if c.Status().Status != domain.StatusReady {
		t.Errorf("status = %v", c.Status().Status)
	}
}

func TestController_NewDigestReplacesArticle(t *testing.T) {
	c, _, _ := newController(t, articleHTML, &mockDigester{})
	ctx := context.Background()

	_, _ = c.RequestDigest(ctx, domain.ModeLarge)
	_, _ = c.RequestDigest(ctx, domain.ModeSmall)

	article, ok := c.Article()
	if !ok || article.Mode != domain.ModeSmall || article.Digested != "digest of small" {
		t.Errorf("Article() = %+v", article)
	}
}

func TestController_SelectionHasNoContainer(t *testing.T) {
	doc, _ := dom.ParseString(articleHTML)
	doc.WithSelection(strings.Repeat("selected words ", 10))
	surface := &mockSurface{}
	c := NewController(doc, nil, &mockDigester{}, surface, interfaces.Dependencies{})

	if _, err := c.RequestDigest(context.Background(), domain.ModeSmall); err != nil {
		t.Fatal(err)
	}
	if surface.containers[0] {
		t.Error("selection digests have no container")
	}
}
