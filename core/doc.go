// Package core contains the business logic of the content-digest pipeline.
// It is framework-agnostic and can be used independently of any web
// framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure models (DigestMode, DomainPolicy, Settings, DigestStatus, UsageReport)
// - policy: Domain allow/deny matching with glob and regex patterns
// - extract: Article container discovery and text extraction
// - digestcache: Bounded digest cache with trimming and deferred flush
// - summarize: Backend orchestration, debounce, timeouts and usage accounting
// - status: The per-page status state machine
// - session: The per-page controller that ties everything to a UI surface
// - settings: Persisted settings with environment credential overrides
// - errors: Error types and their classification into user-facing kinds
// - interfaces: Contracts for external dependencies (storage, HTTP, logger, metrics)
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	import (
//	    "page-digest/core/digestcache"
//	    "page-digest/core/domain"
//	    "page-digest/core/interfaces"
//	    "page-digest/core/summarize"
//	)
//
//	deps := interfaces.Dependencies{
//	    Storage:    myStorage,    // implements interfaces.Storage
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	cache := digestcache.New(deps.Storage, deps.Logger)
//	usage := summarize.NewUsageTracker(deps.Storage, deps.Logger, time.Second)
//	svc := summarize.NewService(cfg, settings, cache, usage, deps, nil)
//
//	result, err := svc.Digest(ctx, text, domain.ModeSmall)
package core
