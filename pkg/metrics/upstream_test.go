package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewUpstreamMetrics(reg)

	m.ObserveRequest("/basket/GetBasket", 200, 25*time.Millisecond)
	m.ObserveRequest("/basket/GetBasket", 200, 30*time.Millisecond)
	m.ObserveRequest("/login/login", 0, time.Second)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/basket/GetBasket", "200")); got != 2 {
		t.Fatalf("expected 2 basket requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/login/login", "error")); got != 1 {
		t.Fatalf("expected transport failure labeled error, got %v", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *UpstreamMetrics
	m.ObserveRequest("/x", 200, time.Millisecond)

	empty := NewUpstreamMetrics(nil)
	empty.ObserveRequest("", 500, time.Millisecond)
}
