package progrock

import (
	"fmt"

	"github.com/vito/progrock"
)

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	err    error
}

// Write streams worker output into the vertex.
func (s *Span) Write(p []byte) (int, error) {
	return s.vertex.Stdout().Write(p)
}

// End completes the vertex, carrying any recorded error.
func (s *Span) End() {
	s.vertex.Done(s.err)
}

// RecordError records an error for the span and echoes it on the vertex's
// error stream.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.err = err
	fmt.Fprintln(s.vertex.Stderr(), err.Error())
}

// SetAttribute records a key-value pair as a vertex log line.
func (s *Span) SetAttribute(key string, value any) {
	fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}

// SetCached marks the vertex as satisfied from published artifacts.
func (s *Span) SetCached() {
	s.vertex.Cached()
}
