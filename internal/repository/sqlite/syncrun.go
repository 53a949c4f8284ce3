package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// SyncRunRepository implements domain.SyncRunRepository for SQLite.
// Diagnostic string slices are stored as JSON text.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create records a newly started run
func (r *SyncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	unmapped, unmatched, err := marshalDiagnostics(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_runs (id, started_at, status, records_processed, error_message, unmapped_statuses, unmatched_actors)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID.String(), run.StartedAt.Format(timeLayout), string(run.Status),
		run.RecordsProcessed, run.ErrorMessage, unmapped, unmatched)
	return err
}

// Finish records the terminal state of a run
func (r *SyncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	unmapped, unmatched, err := marshalDiagnostics(run)
	if err != nil {
		return err
	}

	var completed any
	if run.CompletedAt != nil {
		completed = run.CompletedAt.Format(timeLayout)
	}

	query := `
		UPDATE sync_runs SET
			completed_at = ?,
			status = ?,
			records_processed = ?,
			error_message = ?,
			unmapped_statuses = ?,
			unmatched_actors = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		completed, string(run.Status), run.RecordsProcessed, run.ErrorMessage,
		unmapped, unmatched, run.ID.String())
	return err
}

// GetByID retrieves a run by ID
func (r *SyncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncRun, error) {
	query := `
		SELECT id, started_at, completed_at, status, records_processed, error_message, unmapped_statuses, unmatched_actors
		FROM sync_runs
		WHERE id = ?
	`

	return scanSyncRun(r.db.QueryRowContext(ctx, query, id.String()))
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
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*domain.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}

	return runs, total, rows.Err()
}

func marshalDiagnostics(run *domain.SyncRun) (string, string, error) {
	unmapped, err := json.Marshal(run.UnmappedStatuses)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal unmapped statuses: %w", err)
	}
	unmatched, err := json.Marshal(run.UnmatchedActors)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal unmatched actors: %w", err)
	}
	return string(unmapped), string(unmatched), nil
}

func scanSyncRun(row rowScanner) (*domain.SyncRun, error) {
	var (
		run                 domain.SyncRun
		id, started, status string
		completed           sql.NullString
		unmapped, unmatched string
	)

	if err := row.Scan(&id, &started, &completed, &status, &run.RecordsProcessed, &run.ErrorMessage, &unmapped, &unmatched); err != nil {
		return nil, err
	}

	run.ID, _ = uuid.Parse(id)
	run.StartedAt = parseStoredTime(started)
	run.Status = domain.SyncRunStatus(status)
	if completed.Valid {
		t := parseStoredTime(completed.String)
		run.CompletedAt = &t
	}

	if err := json.Unmarshal([]byte(unmapped), &run.UnmappedStatuses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unmapped statuses: %w", err)
	}
	if err := json.Unmarshal([]byte(unmatched), &run.UnmatchedActors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unmatched actors: %w", err)
	}

	return &run, nil
}
