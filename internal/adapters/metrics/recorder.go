// Package metrics implements the Metrics port: a Prometheus recorder with
// an optional scrape listener, and a no-op default.
package metrics

import (
	"time"

	"github.com/weft-build/weft/internal/core/domain"
)

// Noop drops every observation. It is the recorder when no metrics address
// is configured.
type Noop struct{}

func (Noop) ObservePhaseDuration(string, time.Duration)                       {}
func (Noop) ObserveProjectDuration(string, domain.OutcomeKind, time.Duration) {}
func (Noop) IncProjectOutcome(domain.OutcomeKind)                             {}
func (Noop) IncRunOutcome(string)                                             {}
