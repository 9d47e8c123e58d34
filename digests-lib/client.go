// ABOUTME: Main client for the Digests library providing page digests with domain gating
// ABOUTME: Owns the shared cache, usage counters and settings snapshot; opens one session per page

package digests

import (
	"context"
	"sync"

	"page-digest/core/digestcache"
	"page-digest/core/domain"
	apperrors "page-digest/core/errors"
	"page-digest/core/extract"
	"page-digest/core/interfaces"
	"page-digest/core/policy"
	"page-digest/core/session"
	"page-digest/core/settings"
	"page-digest/core/summarize"
)

// Client is the main entry point for the Digests library
type Client struct {
	config  Config
	deps    interfaces.Dependencies
	cache   *digestcache.Cache
	usage   *summarize.UsageTracker
	manager *settings.Manager

	mu       sync.RWMutex
	settings domain.Settings
	closed   bool

	stop context.CancelFunc
	done chan struct{}
}

// NewClient creates a new Digests client with the given options.
// It loads settings, the digest cache and usage counters from storage and
// starts the periodic cache flush.
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	deps := interfaces.Dependencies{
		Storage:    config.Storage,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
		Metrics:    config.Metrics,
	}

	ctx := context.Background()
	c := &Client{
		config:  config,
		deps:    deps,
		cache:   digestcache.New(config.Storage, config.Logger),
		usage:   summarize.NewUsageTracker(config.Storage, config.Logger, config.UsageDebounce),
		manager: settings.NewManager(config.Storage, config.Logger),
	}

	snapshot := settings.Load(ctx, config.Storage, config.Logger)
	snapshot, installed, err := c.manager.EnsureInstalled(ctx, snapshot)
	if err != nil {
		return nil, NewError(ErrorTypeInternal, "failed to record install").WithCause(err)
	}
	if installed {
		config.Logger.Info("First run", map[string]interface{}{"installed_at": snapshot.InstalledAt})
	}
	c.settings = c.withOverrides(snapshot)
	c.applyDebug(c.settings.Debug)

	if err := c.cache.Load(ctx); err != nil {
		return nil, NewError(ErrorTypeInternal, "failed to load digest cache").WithCause(err)
	}
	if err := c.usage.Load(ctx); err != nil {
		return nil, NewError(ErrorTypeInternal, "failed to load usage counters").WithCause(err)
	}

	runCtx, stop := context.WithCancel(ctx)
	c.stop = stop
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.cache.Run(runCtx, config.FlushInterval)
	}()

	return c, nil
}

// withOverrides applies process-level overrides that are never persisted
func (c *Client) withOverrides(s domain.Settings) domain.Settings {
	if c.config.Credential != "" {
		s.Credential = c.config.Credential
	}
	return s
}

func (c *Client) applyDebug(on bool) {
	if d, ok := c.config.Logger.(interface{ SetDebug(bool) }); ok {
		d.SetDebug(on)
	}
}

// Close stops the flush loop and persists the cache and usage counters
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	<-c.done

	if err := c.usage.Close(context.Background()); err != nil {
		return NewError(ErrorTypeInternal, "failed to persist usage").WithCause(err)
	}
	return nil
}

// Settings returns the current settings snapshot
func (c *Client) Settings() domain.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Clone()
}

// IsDisabled reports whether the domain policy disables digests on host
func (c *Client) IsDisabled(host string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return policy.IsDisabled(c.settings.Policy, host)
}

// Open starts a session for doc loaded from host, rendering to the configured surface
func (c *Client) Open(ctx context.Context, host string, doc interfaces.Document) (*Session, error) {
	return c.OpenWith(ctx, host, doc, c.config.Surface)
}

// OpenWith starts a session rendering to surface.
// It returns apperrors.ErrDisabled when the domain policy excludes host.
func (c *Client) OpenWith(ctx context.Context, host string, doc interfaces.Document, surface interfaces.Surface) (*Session, error) {
	c.mu.RLock()
	closed := c.closed
	snapshot := c.settings
	c.mu.RUnlock()

	if closed {
		return nil, ErrClientClosed
	}
	if doc == nil {
		return nil, NewError(ErrorTypeValidation, "document is required")
	}
	if policy.IsDisabled(snapshot.Policy, host) {
		c.deps.Logger.Debug("Digests disabled for host", map[string]interface{}{
			"host": host,
			"mode": string(snapshot.Policy.Mode),
		})
		return nil, apperrors.ErrDisabled
	}
	if surface == nil {
		surface = quietSurface{}
	}

	service := summarize.NewService(c.config.Backend, snapshot, c.cache, c.usage, c.deps, surface)
	extractor := extract.New(c.config.ReadabilityFallback)
	controller := session.NewController(doc, extractor, service, surface, c.deps)

	return &Session{Controller: controller, AutoRun: snapshot.AutoRun}, nil
}

// UpdateSettings applies updates, persists them and swaps in the new snapshot.
// Cached digests are dropped when prompts or the simplification level change.
// Sessions already open keep the snapshot they were opened with, but after an
// invalidation they no longer read or write the shared cache.
func (c *Client) UpdateSettings(ctx context.Context, updates ...settings.Update) (domain.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.Settings{}, ErrClientClosed
	}

	next, clearCache, err := c.manager.Apply(ctx, c.settings, updates...)
	if err != nil {
		return c.settings.Clone(), err
	}
	if clearCache {
		if err := c.cache.Invalidate(ctx); err != nil {
			return c.settings.Clone(), err
		}
		c.deps.Logger.Info("Digest cache cleared after settings change", nil)
	}

	c.settings = c.withOverrides(next)
	c.applyDebug(c.settings.Debug)
	return c.settings.Clone(), nil
}

// Usage returns the digest token counters priced with the current table
func (c *Client) Usage() UsageReport {
	c.mu.RLock()
	pricing := c.settings.Pricing
	c.mu.RUnlock()
	return summarize.Report(c.usage.Totals(domain.UsageBucketDigest), pricing, c.config.Backend.Model)
}

// ResetUsage zeroes the token counters
func (c *Client) ResetUsage(ctx context.Context) error {
	return c.usage.Reset(ctx)
}

// ClearCache drops every cached digest
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// CacheSize returns the number of cached digests
func (c *Client) CacheSize() int {
	return c.cache.Len()
}

// validateConfig validates the client configuration
func validateConfig(config *Config) error {
	if config.Storage == nil {
		return NewError(ErrorTypeConfiguration, "storage is required")
	}

	if config.HTTPClient == nil {
		return NewError(ErrorTypeConfiguration, "HTTP client is required")
	}

	if config.Logger == nil {
		return NewError(ErrorTypeConfiguration, "logger is required")
	}

	return nil
}
