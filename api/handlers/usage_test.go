package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-digest/core/domain"
	"page-digest/core/summarize"
)

func TestUsageHandler(t *testing.T) {
	service := &mockUsageService{
		report: summarize.UsageReport{
			Counters: domain.UsageCounters{Input: 1000, Output: 500, Calls: 2},
			Pricing:  domain.DefaultPricing()[0],
			Cost:     0.00045,
		},
		size: 7,
	}
	_, api := humatest.New(t)
	NewUsageHandler(service).RegisterRoutes(api)

	resp := api.Get("/v1/usage")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Counters  domain.UsageCounters `json:"counters"`
		Cost      float64              `json:"cost"`
		CacheSize int                  `json:"cacheSize"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Counters.Calls)
	assert.InDelta(t, 0.00045, body.Cost, 1e-9)
	assert.Equal(t, 7, body.CacheSize)

	assert.Equal(t, http.StatusNoContent, api.Delete("/v1/usage").Code)
	assert.Equal(t, 1, service.resets)

	assert.Equal(t, http.StatusNoContent, api.Delete("/v1/cache").Code)
	assert.Equal(t, 1, service.clears)
	assert.Equal(t, 0, service.size)
}

func TestUsageHandler_ResetFailure(t *testing.T) {
	service := &mockUsageService{resetErr: assert.AnError}
	_, api := humatest.New(t)
	NewUsageHandler(service).RegisterRoutes(api)

	assert.Equal(t, http.StatusInternalServerError, api.Delete("/v1/usage").Code)
}
