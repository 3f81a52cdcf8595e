package aggregates

import (
	"strings"
	"time"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// AggregateMetrics is the slice of observability.Metrics the hooks report into.
type AggregateMetrics interface {
	ObserveAggregateOperation(name, status string, dur time.Duration)
	IncAggregateConflict(name string)
	IncAggregateRetry(name string)
}

type metricsHooks struct {
	metrics AggregateMetrics
}

// NewMetricsHooks creates aggregate hooks backed by metrics. A nil metrics gives no-op hooks.
func NewMetricsHooks(metrics AggregateMetrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &metricsHooks{metrics: metrics}
}

func (h *metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h *metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(strings.TrimSpace(name))
}
