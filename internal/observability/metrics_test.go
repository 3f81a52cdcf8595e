package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsAggregateCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveAggregateOperation("lesson_graph.add_prerequisite", "success", 3*time.Millisecond)
	m.ObserveAggregateOperation("lesson_graph.add_prerequisite", "circular_dependency", time.Millisecond)
	m.IncAggregateConflict("lesson_graph.update_status")
	m.IncAggregateRetry("lesson_graph.reorder")

	if got := promtest.ToFloat64(m.aggregateOps.WithLabelValues("lesson_graph.add_prerequisite", "success")); got != 1 {
		t.Fatalf("success ops: want=1 got=%v", got)
	}
	if got := promtest.ToFloat64(m.aggregateConflicts.WithLabelValues("lesson_graph.update_status")); got != 1 {
		t.Fatalf("conflicts: want=1 got=%v", got)
	}
	if got := promtest.ToFloat64(m.aggregateRetries.WithLabelValues("lesson_graph.reorder")); got != 1 {
		t.Fatalf("retries: want=1 got=%v", got)
	}
}

func TestMetricsHandlerExposesAPIMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveAPI("GET", "/api/lessons/:id", "200", 10*time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lingualeap_api_requests_total") {
		t.Fatalf("exposition missing api counter")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncGraphEvent("prerequisite_added", "redis", "ok")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nil handler status: want=404 got=%d", rec.Code)
	}
}
