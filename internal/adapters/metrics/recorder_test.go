package metrics

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/weft-build/weft/internal/adapters/logger"
	"github.com/weft-build/weft/internal/core/domain"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObservePhaseDuration("extraction", 150*time.Millisecond)
	pr.ObserveProjectDuration("core", domain.OutcomeSuccess, 500*time.Millisecond)
	pr.IncProjectOutcome(domain.OutcomeSuccess)
	pr.IncProjectOutcome(domain.OutcomeFailed)
	pr.IncRunOutcome("success")

	// Basic scrape to ensure metrics encode without panic.
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(mfs))
	}

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"weft_phase_duration_seconds",
		"weft_project_build_duration_seconds",
		"weft_project_outcomes_total",
		"weft_run_outcomes_total",
	} {
		if !names[want] {
			t.Errorf("missing metric family %q", want)
		}
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObservePhaseDuration("extraction", time.Second)
	pr.IncRunOutcome("success")
}

func TestService_DisabledWithoutAddr(t *testing.T) {
	s := NewService("")
	if _, ok := s.Metrics.(Noop); !ok {
		t.Fatalf("expected Noop recorder, got %T", s.Metrics)
	}
	// Serve is a no-op when no listener is configured.
	if err := s.Serve(context.Background(), logger.Discard()); err != nil {
		t.Fatalf("serve: %v", err)
	}
}
