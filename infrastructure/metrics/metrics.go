// ABOUTME: Prometheus metrics for the digest pipeline
// ABOUTME: Registered on a caller-supplied registry and exposed by the HTTP surface

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements interfaces.Metrics with Prometheus collectors
type Metrics struct {
	requests  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	tokens    *prometheus.CounterVec
	latency   prometheus.Histogram
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_requests_total",
			Help: "Digest requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_cache_hits_total",
			Help: "Digests served from the cache.",
		}, []string{"mode"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_tokens_total",
			Help: "Backend tokens by direction.",
		}, []string{"direction"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "digest_backend_latency_seconds",
			Help:    "Latency of summarization backend calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.cacheHits, m.tokens, m.latency)
	}
	return m
}

func (m *Metrics) DigestCompleted(mode string, outcome string) {
	m.requests.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) CacheHit(mode string) {
	m.cacheHits.WithLabelValues(mode).Inc()
}

func (m *Metrics) TokensUsed(input, output int64) {
	m.tokens.WithLabelValues("input").Add(float64(input))
	m.tokens.WithLabelValues("output").Add(float64(output))
}

func (m *Metrics) BackendLatency(d time.Duration) {
	m.latency.Observe(d.Seconds())
}
