// ABOUTME: Session controller wires extraction, digesting and status for one page load
// ABOUTME: Receives UI events as method calls and renders every outcome back to the surface

package session

import (
	"context"
	"sync"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/extract"
	"page-digest/core/interfaces"
	"page-digest/core/status"
)

const outcomeSuccess = "success"

// ArticleState is the digest currently shown on the page
type ArticleState struct {
	Original  string
	Digested  string
	Mode      domain.DigestMode
	Elements  []interfaces.Node
	Source    extract.SourceKind
	Container interfaces.Node
	Title     interfaces.Node
}

// Controller handles digest and restore requests for one document
type Controller struct {
	doc       interfaces.Document
	extractor *extract.Extractor
	digester  interfaces.Digester
	surface   interfaces.Surface
	machine   *status.Machine
	logger    interfaces.Logger
	metrics   interfaces.Metrics

	mu      sync.Mutex
	article *ArticleState
}

// NewController creates a Controller and renders the ready state
func NewController(
	doc interfaces.Document,
	extractor *extract.Extractor,
	digester interfaces.Digester,
	surface interfaces.Surface,
	deps interfaces.Dependencies,
) *Controller {
	if extractor == nil {
		extractor = &extract.Extractor{}
	}
	return &Controller{
		doc:       doc,
		extractor: extractor,
		digester:  digester,
		surface:   surface,
		machine:   status.New(surface),
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}
}

// RequestDigest extracts the page content and digests it in mode.
// Every error is rendered to the surface before it is returned.
func (c *Controller) RequestDigest(ctx context.Context, mode domain.DigestMode) (domain.DigestResult, error) {
	if !mode.Valid() {
		return domain.DigestResult{}, &errors.ValidationError{Field: "mode", Message: "must be large or small"}
	}

	content := c.extractor.Extract(c.doc)
	if content == nil {
		c.surface.RenderError(errors.KindNothingToDigest)
		c.record(mode, string(errors.KindNothingToDigest))
		c.log("No digestible content found", nil)
		return domain.DigestResult{}, errors.ErrNothingToDigest
	}

	if err := c.machine.Begin(mode, c.digester.Cached(content.Text, mode)); err != nil {
		c.log("Digest request ignored while processing", map[string]interface{}{"mode": string(mode)})
		return domain.DigestResult{}, err
	}

	result, err := c.digester.Digest(ctx, content.Text, mode)
	if err != nil {
		kind := errors.Classify(err)
		c.surface.RenderError(kind)
		if kind == errors.KindUnauthorized {
			c.surface.RequestCredential()
		}
		c.machine.Fail()
		c.record(mode, string(kind))
		if c.logger != nil {
			c.logger.Warn("Digest failed", map[string]interface{}{
				"mode":  string(mode),
				"kind":  string(kind),
				"error": err.Error(),
			})
		}
		return domain.DigestResult{}, err
	}

	c.mu.Lock()
	c.article = &ArticleState{
		Original:  content.Text,
		Digested:  result.Text,
		Mode:      mode,
		Elements:  content.Elements,
		Source:    content.Source,
		Container: content.Container,
		Title:     content.Title,
	}
	c.mu.Unlock()

	c.surface.RenderResult(result.Text, mode, content.HasContainer())
	c.machine.Succeed()
	c.record(mode, outcomeSuccess)
	if c.logger != nil {
		c.logger.Info("Digest completed", map[string]interface{}{
			"mode":       string(mode),
			"source":     string(content.Source),
			"from_cache": result.FromCache,
			"chars_in":   len(content.Text),
			"chars_out":  len(result.Text),
		})
	}
	return result, nil
}

// Restore removes the shown digest and returns to ready.
// It reports false when nothing was digested.
func (c *Controller) Restore() bool {
	if !c.machine.Restore() {
		return false
	}
	c.mu.Lock()
	c.article = nil
	c.mu.Unlock()
	c.surface.ClearResult()
	return true
}

// Article returns the live article state, if any
func (c *Controller) Article() (ArticleState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.article == nil {
		return ArticleState{}, false
	}
	return *c.article, true
}

// Status returns the current status view
func (c *Controller) Status() domain.StatusView {
	return c.machine.View()
}

func (c *Controller) record(mode domain.DigestMode, outcome string) {
	if c.metrics != nil {
		c.metrics.DigestCompleted(string(mode), outcome)
	}
}

func (c *Controller) log(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, fields)
	}
}
