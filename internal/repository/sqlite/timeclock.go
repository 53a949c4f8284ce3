package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// TimeEntryRepository implements domain.TimeEntryRepository for SQLite
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
		WHERE employee_id = ? AND clock_in >= ? AND clock_in <= ?
		ORDER BY clock_in
	`

	rows, err := r.db.QueryContext(ctx, query,
		employeeID.String(), from.Format(timeLayout), to.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		var (
			e         domain.TimeEntry
			id, empID string
			in        string
			out       sql.NullString
		)
		if err := rows.Scan(&id, &empID, &in, &out); err != nil {
			return nil, err
		}

		e.ID, _ = uuid.Parse(id)
		e.EmployeeID, _ = uuid.Parse(empID)
		e.ClockIn = parseStoredTime(in)
		if out.Valid {
			t := parseStoredTime(out.String)
			e.ClockOut = &t
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
