// Package announce publishes run events to a NATS broker so external
// systems can follow distributed builds as they happen.
package announce

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
)

// Publisher implements ports.EventSink over a NATS connection. Events are
// published as JSON to <subject>.<runID>. The zero Publisher is disabled:
// Record and Close are no-ops.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the broker at url. An empty url yields a
// disabled publisher.
func NewPublisher(url, subject string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}
	conn, err := nats.Connect(url, nats.Name("weft"))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to connect to NATS"), "url", url)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// Enabled reports whether the publisher holds a live connection.
func (p *Publisher) Enabled() bool {
	return p.conn != nil
}

// Record publishes one event. Publishing is fire-and-forget; delivery
// guarantees are the broker's business.
func (p *Publisher) Record(ctx context.Context, event domain.BuildEvent) error {
	if p.conn == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return zerr.Wrap(err, "failed to encode event")
	}
	if err := p.conn.Publish(p.subject+"."+event.RunID, data); err != nil {
		return zerr.Wrap(err, "failed to publish event")
	}
	return nil
}

// Close drains and closes the connection, flushing pending publishes.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
