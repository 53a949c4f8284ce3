package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// StatusMappingRepository implements domain.StatusMappingRepository for PostgreSQL
type StatusMappingRepository struct {
	db *sql.DB
}

// NewStatusMappingRepository creates a new StatusMappingRepository
func NewStatusMappingRepository(db *sql.DB) *StatusMappingRepository {
	return &StatusMappingRepository{db: db}
}

// List retrieves all mappings
func (r *StatusMappingRepository) List(ctx context.Context) ([]*domain.StatusMapping, error) {
	query := `
		SELECT id, external_status, record_type, category, created_at, updated_at
		FROM status_mappings
		ORDER BY record_type, external_status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []*domain.StatusMapping
	for rows.Next() {
		var m domain.StatusMapping
		if err := rows.Scan(&m.ID, &m.ExternalStatus, &m.RecordType, &m.Category, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, &m)
	}

	return mappings, rows.Err()
}

// Create creates a new mapping
func (r *StatusMappingRepository) Create(ctx context.Context, m *domain.StatusMapping) error {
	query := `
		INSERT INTO status_mappings (id, external_status, record_type, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.ExternalStatus, m.RecordType, m.Category, m.CreatedAt, m.UpdatedAt)
	return err
}

// Delete deletes a mapping by ID
func (r *StatusMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM status_mappings WHERE id = $1`, id)
	return err
}
