// ABOUTME: Usage and cache handlers for the Huma API
// ABOUTME: Reports token usage with cost and lets operators reset usage or clear cached digests

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"page-digest/core/summarize"
)

// UsageService reports and resets pipeline-wide state
type UsageService interface {
	Usage() summarize.UsageReport
	ResetUsage(ctx context.Context) error
	ClearCache(ctx context.Context) error
	CacheSize() int
}

// UsageHandler handles usage and cache requests
type UsageHandler struct {
	service UsageService
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(service UsageService) *UsageHandler {
	return &UsageHandler{service: service}
}

// RegisterRoutes registers usage and cache routes
func (h *UsageHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getUsage",
		Method:      http.MethodGet,
		Path:        "/v1/usage",
		Summary:     "Get token usage and cost",
		Tags:        []string{"Usage"},
	}, h.GetUsage)

	huma.Register(api, huma.Operation{
		OperationID:   "resetUsage",
		Method:        http.MethodDelete,
		Path:          "/v1/usage",
		Summary:       "Reset token usage",
		Tags:          []string{"Usage"},
		DefaultStatus: http.StatusNoContent,
	}, h.ResetUsage)

	huma.Register(api, huma.Operation{
		OperationID:   "clearCache",
		Method:        http.MethodDelete,
		Path:          "/v1/cache",
		Summary:       "Clear cached digests",
		Tags:          []string{"Usage"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearCache)
}

// GetUsageOutput defines the output for the GetUsage operation
type GetUsageOutput struct {
	Body struct {
		summarize.UsageReport
		CacheSize int `json:"cacheSize"`
	}
}

// GetUsage handles GET /v1/usage
func (h *UsageHandler) GetUsage(ctx context.Context, input *struct{}) (*GetUsageOutput, error) {
	out := &GetUsageOutput{}
	out.Body.UsageReport = h.service.Usage()
	out.Body.CacheSize = h.service.CacheSize()
	return out, nil
}

// ResetUsage handles DELETE /v1/usage
func (h *UsageHandler) ResetUsage(ctx context.Context, input *struct{}) (*struct{}, error) {
	if err := h.service.ResetUsage(ctx); err != nil {
		return nil, huma.Error500InternalServerError("Failed to reset usage", err)
	}
	return nil, nil
}

// ClearCache handles DELETE /v1/cache
func (h *UsageHandler) ClearCache(ctx context.Context, input *struct{}) (*struct{}, error) {
	if err := h.service.ClearCache(ctx); err != nil {
		return nil, huma.Error500InternalServerError("Failed to clear cache", err)
	}
	return nil, nil
}
