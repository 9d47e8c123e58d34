// Package api provides the HTTP API layer for the page digest service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration, CORS and metrics
// - handlers/: HTTP request handlers and the open page registry
// - middleware/: request logging and per-IP rate limiting
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// The API automatically generates OpenAPI 3.0 documentation:
// - JSON spec available at /openapi.json
// - Interactive docs at /docs
//
// 2. Request/Response Validation
//
// Huma validates input from struct tags, so an unknown digest mode is
// rejected before it reaches the pipeline:
//
//	Body struct {
//	    Mode domain.DigestMode `json:"mode" enum:"large,small"`
//	}
//
// 3. Page Sessions
//
// A page is opened once and then digested or restored by ID:
//
//	POST   /v1/pages              {"url": "...", "html": "...", "selection": "..."}
//	GET    /v1/pages/{id}
//	POST   /v1/pages/{id}/digest  {"mode": "small"}
//	POST   /v1/pages/{id}/restore
//	DELETE /v1/pages/{id}
//	GET    /v1/usage
//	DELETE /v1/usage
//	DELETE /v1/cache
//	GET    /metrics
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(ctx, api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  5,
//	    RateWindow: time.Second,
//	    Gatherer:   registry,
//	})
//
//	handlers.NewPageHandler(handlers.NewClientOpener(client), loader, handlers.NewRegistry(0)).
//	    RegisterRoutes(humaAPI)
//	handlers.NewUsageHandler(client).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807:
//
//	{
//	    "status": 409,
//	    "title": "Conflict",
//	    "detail": "A digest is already being processed."
//	}
//
// Pipeline errors are mapped to status codes by their user-facing category.
package api
