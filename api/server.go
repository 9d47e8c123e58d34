// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging, rate limiting and metrics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"page-digest/api/middleware"
	"page-digest/core/interfaces"
	"page-digest/pkg/featureflags"
)

const (
	apiTitle   = "Page Digest API"
	apiVersion = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger         interfaces.Logger
	RateLimit      int           // requests per window per client IP
	RateWindow     time.Duration // rate limit window
	AllowedOrigins []string      // empty allows all origins
	Gatherer       prometheus.Gatherer
	// Flags is consulted per request; nil leaves the defaults in force
	Flags featureflags.Manager
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "Retry-After"},
		MaxAge:         300,
	}).Handler
}

func humaConfig() huma.Config {
	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "Opens web pages and rewrites their article content into shorter digests"
	return config
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(corsHandler(nil))

	// The OpenAPI spec is served at /openapi.json and the docs UI at /docs
	api := humachi.New(router, humaConfig())
	return api, router
}

// NewAPIWithMiddleware creates a new API with middleware configured.
// The rate limiter's eviction loop runs until ctx is done.
func NewAPIWithMiddleware(ctx context.Context, cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS must answer preflight requests before anything else runs
	router.Use(corsHandler(cfg.AllowedOrigins))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.Flags != nil {
		router.Use(middleware.FeatureFlagsMiddleware(cfg.Flags))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		go limiter.Run(ctx)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	// chi requires every middleware to be registered before the first route
	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	api := humachi.New(router, humaConfig())
	return api, router
}
