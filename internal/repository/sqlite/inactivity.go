package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// InactivityRepository implements domain.InactivityRepository for SQLite
type InactivityRepository struct {
	db *sql.DB
}

// NewInactivityRepository creates a new InactivityRepository
func NewInactivityRepository(db *sql.DB) *InactivityRepository {
	return &InactivityRepository{db: db}
}

// ListRange retrieves one employee's incidents within [from, to]
func (r *InactivityRepository) ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.InactivityIncident, error) {
	query := `
		SELECT id, employee_id, occurred_at, duration_minutes, reason
		FROM inactivity_incidents
		WHERE employee_id = ? AND occurred_at >= ? AND occurred_at <= ?
		ORDER BY occurred_at
	`

	rows, err := r.db.QueryContext(ctx, query,
		employeeID.String(), from.Format(timeLayout), to.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*domain.InactivityIncident
	for rows.Next() {
		var (
			inc                   domain.InactivityIncident
			id, empID, occurredAt string
		)
		if err := rows.Scan(&id, &empID, &occurredAt, &inc.DurationMinutes, &inc.Reason); err != nil {
			return nil, err
		}

		inc.ID, _ = uuid.Parse(id)
		inc.EmployeeID, _ = uuid.Parse(empID)
		inc.OccurredAt = parseStoredTime(occurredAt)
		incidents = append(incidents, &inc)
	}

	return incidents, rows.Err()
}
