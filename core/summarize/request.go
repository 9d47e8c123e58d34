package summarize

import (
	"page-digest/core/domain"
)

// request is the JSON body posted to the backend
type request struct {
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Instructions    string  `json:"instructions"`
	Input           string  `json:"input"`
}

func buildRequest(cfg Config, settings domain.Settings, text string, mode domain.DigestMode) request {
	return request{
		Model:           cfg.Model,
		Temperature:     settings.Level.Strength(),
		MaxOutputTokens: cfg.MaxOutputTokens[mode],
		Instructions:    settings.Prompt(mode),
		Input:           text,
	}
}
