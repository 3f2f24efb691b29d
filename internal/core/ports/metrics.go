package ports

import (
	"time"

	"github.com/weft-build/weft/internal/core/domain"
)

// Metrics defines the observability hooks of the pipeline. Implementations
// forward to Prometheus or drop everything (no-op recorder).
type Metrics interface {
	// ObservePhaseDuration records how long a pipeline phase took
	// (analyze, publish, build, deploy).
	ObservePhaseDuration(phase string, d time.Duration)
	// ObserveProjectDuration records one project's build duration by outcome.
	ObserveProjectDuration(project string, kind domain.OutcomeKind, d time.Duration)
	// IncProjectOutcome counts per-project terminal outcomes.
	IncProjectOutcome(kind domain.OutcomeKind)
	// IncRunOutcome counts run-level results: success, failed, timeout.
	IncRunOutcome(result string)
}
