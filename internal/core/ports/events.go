package ports

import (
	"context"

	"github.com/weft-build/weft/internal/core/domain"
)

// EventSink receives run lifecycle events. Sinks are best-effort: a sink
// error is logged, never escalated into a run failure.
//
//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks
type EventSink interface {
	Record(ctx context.Context, event domain.BuildEvent) error
}
