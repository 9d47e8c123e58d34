// ABOUTME: Backend configuration for the summarization orchestrator
// ABOUTME: Endpoint, model, timeout and per-mode output ceilings

package summarize

import (
	"time"

	"page-digest/core/domain"
)

const (
	// DefaultEndpoint is the responses endpoint of the backend
	DefaultEndpoint = "https://api.openai.com/v1/responses"

	// DefaultModel is the model requested when none is configured
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds one backend call
	DefaultTimeout = 60 * time.Second

	apiName = "summarize"
)

// Config configures the backend call
type Config struct {
	Endpoint        string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens map[domain.DigestMode]int
}

// DefaultConfig returns the built-in backend configuration
func DefaultConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
		MaxOutputTokens: map[domain.DigestMode]int{
			domain.ModeLarge: 2048,
			domain.ModeSmall: 800,
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	tokens := make(map[domain.DigestMode]int, len(d.MaxOutputTokens))
	for mode, n := range d.MaxOutputTokens {
		tokens[mode] = n
	}
	for mode, n := range c.MaxOutputTokens {
		if n > 0 {
			tokens[mode] = n
		}
	}
	c.MaxOutputTokens = tokens
	return c
}
