package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"page-digest/pkg/featureflags"
)

func TestFeatureFlagsMiddleware(t *testing.T) {
	manager := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.RateLimit: true,
	})

	var loading, limiting bool
	handler := FeatureFlagsMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loading = featureflags.IsEnabled(r.Context(), featureflags.URLLoading)
		limiting = featureflags.IsEnabled(r.Context(), featureflags.RateLimit)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/usage", nil))

	assert.False(t, loading)
	assert.True(t, limiting)
}
