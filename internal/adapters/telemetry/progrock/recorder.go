// Package progrock provides the progrock implementation of the tracing
// adapter. Every pipeline phase and project build becomes a vertex on the
// tape; the console writer renders vertex transitions as they happen.
package progrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"github.com/weft-build/weft/internal/core/ports"
)

// Tracer implements ports.Tracer on a progrock recorder.
type Tracer struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Tracer recording to a fresh tape.
func New() *Tracer {
	return NewTracer(progrock.NewTape())
}

// NewTracer creates a Tracer recording to the given writer.
func NewTracer(w progrock.Writer) *Tracer {
	return &Tracer{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start begins a vertex named after the span.
func (t *Tracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := digest.FromString(name)
	v := t.rec.Vertex(d, name)
	return ctx, &Span{vertex: v}
}

// EmitPlan records the planned project set as a completed vertex, so the
// full plan is visible before anything runs.
func (t *Tracer) EmitPlan(_ context.Context, projects []string) {
	v := t.rec.Vertex(digest.FromString("plan"), "plan")
	fmt.Fprintln(v.Stdout(), strings.Join(projects, "\n"))
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (t *Tracer) Close() error {
	if c, ok := t.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
