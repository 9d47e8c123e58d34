// ABOUTME: Builds the digest client from configuration for CLI commands
// ABOUTME: Opens storage lazily so help and usage errors never touch the database

package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"page-digest/core/domain"
	"page-digest/core/interfaces"
	"page-digest/core/summarize"
	digests "page-digest/digests-lib"
	stdhttp "page-digest/infrastructure/http/standard"
	stdlogger "page-digest/infrastructure/logger/standard"
	"page-digest/infrastructure/metrics"
	"page-digest/infrastructure/page"
	"page-digest/infrastructure/storage/memory"
	"page-digest/infrastructure/storage/redis"
	"page-digest/infrastructure/storage/sqlite"
	"page-digest/pkg/config"
)

// runtime holds what commands share during one invocation
type runtime struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	logger   *stdlogger.StandardLogger
	registry *prometheus.Registry
	client   *digests.Client
	closers  []func() error
}

func newRuntime(cfg *config.Config, out, errOut io.Writer) *runtime {
	return &runtime{cfg: cfg, out: out, errOut: errOut}
}

func (rt *runtime) log() *stdlogger.StandardLogger {
	if rt.logger == nil {
		rt.logger = stdlogger.New(stdlogger.Options{
			Level:  rt.cfg.Log.Level,
			Format: rt.cfg.Log.Format,
			Output: rt.errOut,
		})
	}
	return rt.logger
}

func (rt *runtime) loader() *page.Loader {
	return page.NewLoader(rt.log(),
		page.WithUserAgent(rt.cfg.UserAgent),
		page.WithTimeout(rt.cfg.Backend.Timeout/2),
	)
}

// enableMetrics makes the client record to a fresh registry. Call before open.
func (rt *runtime) enableMetrics() *prometheus.Registry {
	if rt.registry == nil {
		rt.registry = prometheus.NewRegistry()
	}
	return rt.registry
}

// open builds the client on first use
func (rt *runtime) open(c *cli.Context) (*digests.Client, error) {
	if rt.client != nil {
		return rt.client, nil
	}

	if storageType := c.String("storage"); storageType != "" {
		rt.cfg.Storage.Type = storageType
	}
	if err := rt.cfg.Validate(); err != nil {
		return nil, cli.Exit("invalid configuration: "+err.Error(), 2)
	}

	storage, err := rt.openStorage()
	if err != nil {
		return nil, err
	}

	httpClient := stdhttp.NewStandardHTTPClient(rt.cfg.Backend.Timeout + rt.cfg.Backend.Timeout/2)
	if rt.cfg.Backend.RateLimit > 0 {
		httpClient.WithRateLimit(rt.cfg.Backend.RateLimit, 1)
	}

	opts := []digests.Option{
		digests.WithStorage(storage),
		digests.WithHTTPClient(httpClient),
		digests.WithLogger(rt.log()),
		digests.WithBackend(summarize.Config{
			Endpoint: rt.cfg.Backend.Endpoint,
			Model:    rt.cfg.Backend.Model,
			Timeout:  rt.cfg.Backend.Timeout,
			MaxOutputTokens: map[domain.DigestMode]int{
				domain.ModeLarge: rt.cfg.Backend.MaxTokensLarge,
				domain.ModeSmall: rt.cfg.Backend.MaxTokensSmall,
			},
		}),
		digests.WithFlushInterval(rt.cfg.Pipeline.CacheFlushInterval),
		digests.WithUsageDebounce(rt.cfg.Pipeline.UsageDebounce),
		digests.WithReadabilityFallback(rt.cfg.Pipeline.ReadabilityFallback),
	}
	if rt.cfg.Backend.APIKey != "" {
		opts = append(opts, digests.WithCredential(rt.cfg.Backend.APIKey))
	}
	if rt.registry != nil {
		opts = append(opts, digests.WithMetrics(metrics.New(rt.registry)))
	}

	client, err := digests.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	rt.client = client
	return client, nil
}

func (rt *runtime) openStorage() (interfaces.Storage, error) {
	switch rt.cfg.Storage.Type {
	case "redis":
		store, err := redis.NewStore(rt.cfg.Storage.Redis)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	case "sqlite":
		store, err := sqlite.NewStore(rt.cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	default:
		return memory.NewStore(), nil
	}
}

// close flushes the client and releases storage
func (rt *runtime) close() error {
	var first error
	if rt.client != nil {
		first = rt.client.Close()
		rt.client = nil
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	rt.closers = nil
	return first
}
