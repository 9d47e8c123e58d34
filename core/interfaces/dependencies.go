// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the digest pipeline

package interfaces

// Dependencies holds all external dependencies required by the core pipeline
type Dependencies struct {
	// Storage persists settings, usage counters and the digest cache
	Storage Storage

	// HTTPClient calls the summarization backend
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Metrics is optional
	Metrics Metrics
}
