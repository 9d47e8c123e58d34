// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as storage, page loading, HTTP communication, logging and metrics.
//
// The infrastructure package is organized by technical concern:
//
// - storage/memory: In-process key/value store on go-cache
// - storage/redis: Redis-backed key/value store
// - storage/sqlite: SQLite-backed key/value store
// - dom: goquery document adapter with a readability fallback
// - page: colly page fetcher producing dom documents
// - http/standard: net/http client with an optional outbound rate limit
// - logger/standard: logrus structured logger
// - metrics: Prometheus collectors for the digest pipeline
//
// # Storage
//
// Every store implements interfaces.Storage. A missing key is reported as
// *errors.NotFoundError so callers can fall back to defaults:
//
//	store := memory.NewStore()
//	err := store.Set(ctx, "simplification_level", []byte("balanced"))
//	value, err := store.Get(ctx, "simplification_level")
//
//	store, err := sqlite.NewStore("page-digest.db")
//	defer store.Close()
//
// # Documents
//
// Pages are parsed once and handed to the extractor as interfaces.Document:
//
//	doc, err := page.NewLoader(logger).Load(ctx, "https://example.com/story")
//	doc = doc.WithSelection("text the user selected")
//
// # HTTP Client
//
// The HTTP client never retries. A failed digest is reported to the user,
// who decides whether to try again:
//
//	client := standard.NewStandardHTTPClient(90 * time.Second).WithRateLimit(2, 1)
//	resp, err := client.Post(ctx, endpoint, body, headers)
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := standard.NewStandardLogger()
//	logger.Info("Digest completed", map[string]interface{}{
//	    "mode":       "small",
//	    "from_cache": true,
//	})
//
package infrastructure
