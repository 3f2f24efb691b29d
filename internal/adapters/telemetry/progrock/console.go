package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// ConsoleWriter is a progrock.Writer rendering vertex transitions as plain
// status lines. It is the non-TTY-safe progress view: one line when a
// vertex starts, one when it completes.
type ConsoleWriter struct {
	out io.Writer

	mu   sync.Mutex
	seen map[string]bool
	done map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter printing to out.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		out:  out,
		seen: make(map[string]bool),
		done: make(map[string]bool),
	}
}

// WriteStatus renders the transitions contained in one status update.
func (w *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if !w.seen[v.Id] {
			w.seen[v.Id] = true
			fmt.Fprintf(w.out, "=> %s\n", v.Name)
		}
		if v.Completed == nil || w.done[v.Id] {
			continue
		}
		w.done[v.Id] = true
		switch {
		case v.Error != nil:
			fmt.Fprintf(w.out, "✗ %s: %s\n", v.Name, *v.Error)
		case v.Cached:
			fmt.Fprintf(w.out, "✓ %s (cached)\n", v.Name)
		default:
			fmt.Fprintf(w.out, "✓ %s\n", v.Name)
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (w *ConsoleWriter) Close() error {
	return nil
}
