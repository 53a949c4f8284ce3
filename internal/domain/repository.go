package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusMappingRepository defines the interface for status mapping persistence
type StatusMappingRepository interface {
	// List retrieves all mappings (the per-run snapshot)
	List(ctx context.Context) ([]*StatusMapping, error)

	// Create creates a new mapping
	Create(ctx context.Context, m *StatusMapping) error

	// Delete deletes a mapping by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository defines the interface for employee snapshots
type EmployeeRepository interface {
	// List retrieves employees, optionally restricted to active ones
	List(ctx context.Context, activeOnly bool) ([]*Employee, error)
}

// DailyStatRepository defines the interface for per-day aggregate persistence
type DailyStatRepository interface {
	// Upsert inserts or replaces the row keyed on (employee_id, date)
	Upsert(ctx context.Context, stat *DailyStat) error

	// GetByEmployeeDate retrieves a single row, nil if absent
	GetByEmployeeDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*DailyStat, error)

	// ListRange retrieves one employee's rows within [from, to]
	ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*DailyStat, error)

	// ListAllRange retrieves all rows within [from, to]
	ListAllRange(ctx context.Context, from, to time.Time) ([]*DailyStat, error)
}

// SyncRunRepository defines the interface for sync run auditing
type SyncRunRepository interface {
	// Create records a newly started run
	Create(ctx context.Context, run *SyncRun) error

	// Finish records the terminal state of a run
	Finish(ctx context.Context, run *SyncRun) error

	// GetByID retrieves a run by ID
	GetByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)

	// List retrieves runs newest first with pagination
	List(ctx context.Context, limit, offset int) ([]*SyncRun, int, error)
}

// TimeEntryRepository defines the interface for time-clock snapshots
type TimeEntryRepository interface {
	// ListRange retrieves one employee's entries clocked in within [from, to]
	ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*TimeEntry, error)
}

// InactivityRepository defines the interface for inactivity incident snapshots
type InactivityRepository interface {
	// ListRange retrieves one employee's incidents within [from, to]
	ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*InactivityIncident, error)
}
