// ABOUTME: Page loader fetches HTML with colly and parses it into a dom.Document
// ABOUTME: Also loads pages from local files for offline digests

package page

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gocolly/colly"

	"page-digest/core/interfaces"
	"page-digest/infrastructure/dom"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; page-digest/1.0)"

// Loader fetches pages
type Loader struct {
	userAgent string
	timeout   time.Duration
	maxBody   int
	logger    interfaces.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// NewLoader creates a Loader
func NewLoader(logger interfaces.Logger, opts ...Option) *Loader {
	l := &Loader{
		userAgent: defaultUserAgent,
		timeout:   30 * time.Second,
		maxBody:   5 * 1024 * 1024,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches targetURL and parses the response body
func (l *Loader) Load(ctx context.Context, targetURL string) (*dom.Document, error) {
	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid page URL %q", targetURL)
	}

	c := colly.NewCollector(
		colly.UserAgent(l.userAgent),
		colly.MaxBodySize(l.maxBody),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(l.timeout)

	var (
		body     []byte
		final    *url.URL
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		final = r.Request.URL
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("failed to fetch %s: status %d: %w", targetURL, r.StatusCode, err)
	})

	if err := c.Visit(u.String()); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("failed to fetch %s: %w", targetURL, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("failed to fetch %s: empty response", targetURL)
	}

	if l.logger != nil {
		l.logger.Debug("Fetched page", map[string]interface{}{
			"url":   final.String(),
			"bytes": len(body),
		})
	}

	return dom.Parse(bytes.NewReader(body), final)
}

// LoadFile parses a local HTML file. pageURL may be empty.
func (l *Loader) LoadFile(path, pageURL string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var u *url.URL
	if pageURL != "" {
		if u, err = url.Parse(pageURL); err != nil {
			return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
		}
	}
	return dom.Parse(f, u)
}
