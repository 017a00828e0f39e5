package entities

import "time"

// ProcessStatus is the status of an idempotency record
type ProcessStatus string

const (
	ProcessStatusProcessing ProcessStatus = "processing"
	ProcessStatusCompleted  ProcessStatus = "completed"
)

// ProcessRecord is the idempotency marker for the completion pipeline, one
// per bot id, stored in the lock store with a TTL. Its existence means "do
// not re-run"; it is deleted when a run fails so that a later redelivery can
// retry from scratch.
type ProcessRecord struct {
	BotID       string        `json:"bot_id"`
	Status      ProcessStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	// EventTimestamp is the triggering webhook event's own timestamp
	// (unix milliseconds)
	EventTimestamp int64 `json:"event_timestamp,omitempty"`
}

// NewProcessRecord creates a record marking a pipeline run in flight
func NewProcessRecord(botID string, eventTimestamp int64) *ProcessRecord {
	return &ProcessRecord{
		BotID:          botID,
		Status:         ProcessStatusProcessing,
		StartedAt:      time.Now(),
		EventTimestamp: eventTimestamp,
	}
}

// MarkCompleted marks the record as a finished, never-to-rerun unit of work
func (r *ProcessRecord) MarkCompleted() {
	now := time.Now()
	r.Status = ProcessStatusCompleted
	r.CompletedAt = &now
}
