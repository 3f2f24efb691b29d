package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span for a pipeline phase or a project build.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals the set of projects planned for this run.
	EmitPlan(ctx context.Context, projects []string)
}

// Span represents a unit of work. Worker output streams into the span
// through the io.Writer.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
	// SetCached marks the span's work as satisfied from published artifacts.
	SetCached()
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Internal marks spans that should not surface in user-facing progress.
	Internal bool
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithInternal marks the span as internal bookkeeping.
func WithInternal() SpanOption {
	return func(c *SpanConfig) { c.Internal = true }
}
