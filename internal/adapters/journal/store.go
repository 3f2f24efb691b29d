// Package journal persists run events into a local SQLite database, one row
// per event. It backs the --events view and gives operators a queryable
// history of what ran and when.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.trai.ch/zerr"
	_ "modernc.org/sqlite"

	"github.com/weft-build/weft/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	project TEXT,
	detail TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
`

// Store implements ports.EventSink on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the journal database at path. Use ":memory:"
// for an ephemeral journal.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open journal database")
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to initialize journal schema")
	}
	return &Store{db: db}, nil
}

// Record appends one event.
func (s *Store) Record(ctx context.Context, event domain.BuildEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detail []byte
	if len(event.Detail) > 0 {
		var err error
		detail, err = json.Marshal(event.Detail)
		if err != nil {
			return zerr.Wrap(err, "failed to encode event detail")
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (run_id, recorded_at, event_type, project, detail) VALUES (?, ?, ?, ?, ?)",
		event.RunID, event.Time.Unix(), string(event.Type), event.Project, detail,
	)
	if err != nil {
		return zerr.Wrap(err, "failed to insert event")
	}
	return nil
}

// EventsForRun returns every event recorded for runID, in insertion order.
func (s *Store) EventsForRun(ctx context.Context, runID string) ([]domain.BuildEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, recorded_at, event_type, project, detail FROM events WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var events []domain.BuildEvent
	for rows.Next() {
		var (
			e          domain.BuildEvent
			recordedAt int64
			eventType  string
			detail     []byte
		)
		if err := rows.Scan(&e.RunID, &recordedAt, &eventType, &e.Project, &detail); err != nil {
			return nil, zerr.Wrap(err, "failed to scan event")
		}
		e.Time = time.Unix(recordedAt, 0).UTC()
		e.Type = domain.EventType(eventType)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, zerr.Wrap(err, "failed to decode event detail")
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate events")
	}
	return events, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
