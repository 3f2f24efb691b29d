package domain

import "time"

// EventType names the run lifecycle moments recorded in the journal and
// announced to subscribers.
type EventType string

const (
	EventRunStarted        EventType = "run.started"
	EventAnalysisCompleted EventType = "analysis.completed"
	EventRecordPublished   EventType = "record.published"
	EventProjectCompleted  EventType = "project.completed"
	EventDeployCompleted   EventType = "deploy.completed"
	EventRunCompleted      EventType = "run.completed"
)

// BuildEvent is one journal entry of a build run. Project is empty for
// run-level events. Detail carries small string attributes (build uuid,
// outcome kind, cause) and must stay JSON-encodable.
type BuildEvent struct {
	RunID   string            `json:"run_id"`
	Time    time.Time         `json:"time"`
	Type    EventType         `json:"type"`
	Project string            `json:"project,omitempty"`
	Detail  map[string]string `json:"detail,omitempty"`
}
