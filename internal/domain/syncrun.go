package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncRunStatus is the lifecycle state of a sync run
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusCompleted SyncRunStatus = "completed"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun audits one execution of the reconciliation pipeline. It is
// created when the run starts, finalized exactly once on completion or
// failure, and never deleted. Used for operability, not business logic.
type SyncRun struct {
	ID               uuid.UUID     `json:"id"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	Status           SyncRunStatus `json:"status"`
	RecordsProcessed int           `json:"records_processed"`
	ErrorMessage     string        `json:"error_message,omitempty"`

	// Diagnostics collected during the run so operators can fix
	// mapping or alias configuration without digging through logs
	UnmappedStatuses []string `json:"unmapped_statuses,omitempty"`
	UnmatchedActors  []string `json:"unmatched_actors,omitempty"`
}

// Complete marks the run as successfully finished
func (r *SyncRun) Complete(at time.Time, recordsProcessed int) {
	r.Status = SyncRunStatusCompleted
	r.CompletedAt = &at
	r.RecordsProcessed = recordsProcessed
}

// Fail marks the run as failed with the captured error
func (r *SyncRun) Fail(at time.Time, err error) {
	r.Status = SyncRunStatusFailed
	r.CompletedAt = &at
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
