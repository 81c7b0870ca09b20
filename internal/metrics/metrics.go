// Package metrics exposes Prometheus counters for detection and triage runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentinelsoc/internal/logger"
)

// Metrics holds the Prometheus instruments shared across a run.
type Metrics struct {
	RecordsSkipped     *prometheus.CounterVec
	AlertsTotal        *prometheus.CounterVec
	NarrativeRequests  prometheus.Counter
	NarrativeFailures  prometheus.Counter
	NarrativeFallbacks prometheus.Counter
	TriageRecords      prometheus.Counter
}

// NewMetrics registers counters on a fresh registry and returns both.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinelsoc_records_skipped_total",
			Help: "Malformed input records skipped, by source",
		}, []string{"source"}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinelsoc_alerts_total",
			Help: "Alerts emitted, by type and severity",
		}, []string{"type", "severity"}),
		NarrativeRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentinelsoc_narrative_requests_total",
			Help: "Narrative provider invocations",
		}),
		NarrativeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentinelsoc_narrative_failures_total",
			Help: "Narrative provider failures (timeout, error, malformed)",
		}),
		NarrativeFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentinelsoc_narrative_fallbacks_total",
			Help: "Triage records built from the deterministic fallback summary",
		}),
		TriageRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentinelsoc_triage_records_total",
			Help: "Triage records produced",
		}),
	}

	return m, reg
}

// Serve exposes the registry on addr until the process exits. Serving errors
// are logged, never fatal: metrics are an observability aid, not a stage.
func Serve(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("Metrics listener stopped: %v", err)
		}
	}()
	logger.Infof("Metrics listening on %s", addr)
}
