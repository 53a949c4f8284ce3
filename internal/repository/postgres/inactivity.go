package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// InactivityRepository implements domain.InactivityRepository for PostgreSQL
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
		WHERE employee_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*domain.InactivityIncident
	for rows.Next() {
		var inc domain.InactivityIncident
		if err := rows.Scan(&inc.ID, &inc.EmployeeID, &inc.OccurredAt, &inc.DurationMinutes, &inc.Reason); err != nil {
			return nil, err
		}
		incidents = append(incidents, &inc)
	}

	return incidents, rows.Err()
}
