// ABOUTME: Configuration options for the Digests library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package digests

import (
	"time"

	"page-digest/core/digestcache"
	"page-digest/core/interfaces"
	"page-digest/core/summarize"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// Config holds the configuration for the client
type Config struct {
	// Storage persists settings, usage counters and the digest cache
	Storage interfaces.Storage

	// HTTPClient calls the summarization backend
	HTTPClient interfaces.HTTPClient

	// Logger configuration
	Logger interfaces.Logger

	// Metrics is optional
	Metrics interfaces.Metrics

	// Surface receives status, results and errors for sessions opened with Open
	Surface interfaces.Surface

	// Backend configures the summarization call
	Backend summarize.Config

	// Credential overrides the stored backend credential without persisting it
	Credential string

	// FlushInterval is the digest cache flush period
	FlushInterval time.Duration

	// UsageDebounce is the quiet period before usage counters are saved
	UsageDebounce time.Duration

	// ReadabilityFallback lets extraction fall back to readability
	ReadabilityFallback bool
}

// WithStorage sets a custom storage implementation
func WithStorage(storage interfaces.Storage) Option {
	return func(c *Config) error {
		c.Storage = storage
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics records pipeline metrics
func WithMetrics(metrics interfaces.Metrics) Option {
	return func(c *Config) error {
		c.Metrics = metrics
		return nil
	}
}

// WithSurface sets the surface used by Open
func WithSurface(surface interfaces.Surface) Option {
	return func(c *Config) error {
		c.Surface = surface
		return nil
	}
}

// WithBackend sets the backend endpoint, model, timeout and output ceilings
func WithBackend(backend summarize.Config) Option {
	return func(c *Config) error {
		c.Backend = backend
		return nil
	}
}

// WithCredential overrides the stored credential for this process
func WithCredential(key string) Option {
	return func(c *Config) error {
		c.Credential = key
		return nil
	}
}

// WithFlushInterval sets the digest cache flush period
func WithFlushInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return NewError(ErrorTypeValidation, "flush interval must be positive").
				WithContext("interval", d.String())
		}
		c.FlushInterval = d
		return nil
	}
}

// WithUsageDebounce sets the usage persistence debounce
func WithUsageDebounce(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return NewError(ErrorTypeValidation, "usage debounce must be positive").
				WithContext("debounce", d.String())
		}
		c.UsageDebounce = d
		return nil
	}
}

// WithReadabilityFallback enables the readability container fallback
func WithReadabilityFallback(enabled bool) Option {
	return func(c *Config) error {
		c.ReadabilityFallback = enabled
		return nil
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Storage:       DefaultMemoryStorage(),
		HTTPClient:    DefaultHTTPClient(),
		Logger:        DefaultLogger(),
		Backend:       summarize.DefaultConfig(),
		FlushInterval: digestcache.DefaultFlushInterval,
		UsageDebounce: summarize.DefaultUsageDebounce,
	}
}
