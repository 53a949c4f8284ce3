package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// Times are stored as RFC3339 text so range predicates compare
// lexicographically
const timeLayout = time.RFC3339Nano

// dateLayout is used for daily stat dates
const dateLayout = "2006-01-02"

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StatusMappingRepository implements domain.StatusMappingRepository for SQLite
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
		var (
			m                    domain.StatusMapping
			id, created, updated string
		)
		if err := rows.Scan(&id, &m.ExternalStatus, &m.RecordType, &m.Category, &created, &updated); err != nil {
			return nil, err
		}

		m.ID, _ = uuid.Parse(id)
		m.CreatedAt = parseStoredTime(created)
		m.UpdatedAt = parseStoredTime(updated)
		mappings = append(mappings, &m)
	}

	return mappings, rows.Err()
}

// Create creates a new mapping
func (r *StatusMappingRepository) Create(ctx context.Context, m *domain.StatusMapping) error {
	query := `
		INSERT INTO status_mappings (id, external_status, record_type, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID.String(), m.ExternalStatus, string(m.RecordType), string(m.Category),
		m.CreatedAt.Format(timeLayout), m.UpdatedAt.Format(timeLayout))
	return err
}

// Delete deletes a mapping by ID
func (r *StatusMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM status_mappings WHERE id = ?`, id.String())
	return err
}
