package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// TimeEntryRepository implements domain.TimeEntryRepository for PostgreSQL
type TimeEntryRepository struct {
	db *sql.DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository
func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// ListRange retrieves one employee's entries clocked in within [from, to]
func (r *TimeEntryRepository) ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.TimeEntry, error) {
	query := `
		SELECT id, employee_id, clock_in, clock_out
		FROM time_entries
		WHERE employee_id = $1 AND clock_in >= $2 AND clock_in <= $3
		ORDER BY clock_in
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &e.ClockOut); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
