package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fieldcrew/statsync/internal/domain"
)

// SyncRunRepository implements domain.SyncRunRepository for PostgreSQL
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create records a newly started run
func (r *SyncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, started_at, status, records_processed, error_message, unmapped_statuses, unmatched_actors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.StartedAt, run.Status, run.RecordsProcessed, run.ErrorMessage,
		pq.Array(run.UnmappedStatuses), pq.Array(run.UnmatchedActors))
	return err
}

// Finish records the terminal state of a run
func (r *SyncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	query := `
		UPDATE sync_runs SET
			completed_at = $2,
			status = $3,
			records_processed = $4,
			error_message = $5,
			unmapped_statuses = $6,
			unmatched_actors = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.CompletedAt, run.Status, run.RecordsProcessed, run.ErrorMessage,
		pq.Array(run.UnmappedStatuses), pq.Array(run.UnmatchedActors))
	return err
}

// GetByID retrieves a run by ID
func (r *SyncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncRun, error) {
	query := `
		SELECT id, started_at, completed_at, status, records_processed, error_message, unmapped_statuses, unmatched_actors
		FROM sync_runs
		WHERE id = $1
	`

	var run domain.SyncRun
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status, &run.RecordsProcessed, &run.ErrorMessage,
		pq.Array(&run.UnmappedStatuses), pq.Array(&run.UnmatchedActors))
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// List retrieves runs newest first with pagination
func (r *SyncRunRepository) List(ctx context.Context, limit, offset int) ([]*domain.SyncRun, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_runs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, started_at, completed_at, status, records_processed, error_message, unmapped_statuses, unmatched_actors
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*domain.SyncRun
	for rows.Next() {
		var run domain.SyncRun
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status, &run.RecordsProcessed, &run.ErrorMessage,
			pq.Array(&run.UnmappedStatuses), pq.Array(&run.UnmatchedActors)); err != nil {
			return nil, 0, err
		}
		runs = append(runs, &run)
	}

	return runs, total, rows.Err()
}
