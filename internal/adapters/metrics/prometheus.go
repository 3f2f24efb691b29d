package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/weft-build/weft/internal/core/domain"
)

// PrometheusRecorder implements the Metrics port using Prometheus metrics.
// All methods are nil-safe so a disabled recorder costs nothing.
type PrometheusRecorder struct {
	phaseDuration   *prom.HistogramVec
	projectDuration *prom.HistogramVec
	projectOutcome  *prom.CounterVec
	runOutcome      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the weft metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	// Project builds run for minutes, not milliseconds; the buckets span
	// 100ms to roughly an hour.
	buckets := prom.ExponentialBuckets(0.1, 2, 16)

	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "weft",
			Name:      "phase_duration_seconds",
			Help:      "Duration of pipeline phases",
			Buckets:   buckets,
		}, []string{"phase"}),
		projectDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "weft",
			Name:      "project_build_duration_seconds",
			Help:      "Duration of individual project builds",
			Buckets:   buckets,
		}, []string{"project", "outcome"}),
		projectOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "weft",
			Name:      "project_outcomes_total",
			Help:      "Per-project terminal outcomes",
		}, []string{"outcome"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "weft",
			Name:      "run_outcomes_total",
			Help:      "Run-level results",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.projectDuration, pr.projectOutcome, pr.runOutcome)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveProjectDuration(project string, kind domain.OutcomeKind, d time.Duration) {
	if p == nil || p.projectDuration == nil {
		return
	}
	p.projectDuration.WithLabelValues(project, string(kind)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncProjectOutcome(kind domain.OutcomeKind) {
	if p == nil || p.projectOutcome == nil {
		return
	}
	p.projectOutcome.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(result string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(result).Inc()
}
