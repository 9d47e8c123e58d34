// ABOUTME: Feature flag middleware for API endpoints
// ABOUTME: Puts the flag manager on each request context for handlers to consult

package middleware

import (
	"net/http"

	"page-digest/pkg/featureflags"
)

// FeatureFlagsMiddleware makes manager reachable through featureflags.FromContext
func FeatureFlagsMiddleware(manager featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(featureflags.WithManager(r.Context(), manager)))
		})
	}
}
