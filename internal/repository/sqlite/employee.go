package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// EmployeeRepository implements domain.EmployeeRepository for SQLite
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List retrieves employees, optionally restricted to active ones
func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, alias, active, created_at
		FROM employees
	`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		var (
			e           domain.Employee
			id, created string
			active      int
		)
		if err := rows.Scan(&id, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Alias, &active, &created); err != nil {
			return nil, err
		}

		e.ID, _ = uuid.Parse(id)
		e.Active = active != 0
		e.CreatedAt = parseStoredTime(created)
		employees = append(employees, &e)
	}

	return employees, rows.Err()
}
