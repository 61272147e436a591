package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records outcomes of calls to the Nemlig API.
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewUpstreamMetrics registers the upstream call metrics on the provided
// registerer. A nil registerer yields a no-op collector set.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nemlig_upstream_requests_total",
		Help: "Outbound requests to the Nemlig API by endpoint and status.",
	}, []string{"endpoint", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nemlig_upstream_request_duration_seconds",
		Help:    "Duration of outbound Nemlig API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(requests, duration)
	return &UpstreamMetrics{
		requests: requests,
		duration: duration,
	}
}

// ObserveRequest records one outbound call. Status 0 means the request never
// produced an HTTP response (transport failure).
func (m *UpstreamMetrics) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	label := normalizeLabel(endpoint)
	m.requests.WithLabelValues(label, statusLabel(status)).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(endpoint string) string {
	if endpoint == "" {
		return "unknown"
	}
	return endpoint
}
