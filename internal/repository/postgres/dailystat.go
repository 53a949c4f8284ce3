package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// DailyStatRepository implements domain.DailyStatRepository for PostgreSQL
type DailyStatRepository struct {
	db *sql.DB
}

// NewDailyStatRepository creates a new DailyStatRepository
func NewDailyStatRepository(db *sql.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db}
}

// Upsert inserts or replaces the row keyed on (employee_id, stat_date).
// The replace is wholesale: counts and total are overwritten, never added to.
func (r *DailyStatRepository) Upsert(ctx context.Context, stat *domain.DailyStat) error {
	counts, err := json.Marshal(stat.Counts)
	if err != nil {
		return fmt.Errorf("failed to marshal counts: %w", err)
	}

	query := `
		INSERT INTO daily_stats (employee_id, stat_date, counts, total, last_synced_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, stat_date) DO UPDATE SET
			counts = EXCLUDED.counts,
			total = EXCLUDED.total,
			last_synced_at = EXCLUDED.last_synced_at
	`

	_, err = r.db.ExecContext(ctx, query, stat.EmployeeID, stat.Date, counts, stat.Total, stat.LastSyncedAt)
	return err
}

// GetByEmployeeDate retrieves a single row, nil if absent
func (r *DailyStatRepository) GetByEmployeeDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*domain.DailyStat, error) {
	query := `
		SELECT employee_id, stat_date, counts, total, last_synced_at
		FROM daily_stats
		WHERE employee_id = $1 AND stat_date = $2
	`

	stat, err := scanDailyStat(r.db.QueryRowContext(ctx, query, employeeID, domain.DateOnly(date)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return stat, nil
}

// ListRange retrieves one employee's rows within [from, to]
func (r *DailyStatRepository) ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.DailyStat, error) {
	query := `
		SELECT employee_id, stat_date, counts, total, last_synced_at
		FROM daily_stats
		WHERE employee_id = $1 AND stat_date >= $2 AND stat_date <= $3
		ORDER BY stat_date
	`

	return r.queryStats(ctx, query, employeeID, domain.DateOnly(from), domain.DateOnly(to))
}

// ListAllRange retrieves all rows within [from, to]
func (r *DailyStatRepository) ListAllRange(ctx context.Context, from, to time.Time) ([]*domain.DailyStat, error) {
	query := `
		SELECT employee_id, stat_date, counts, total, last_synced_at
		FROM daily_stats
		WHERE stat_date >= $1 AND stat_date <= $2
		ORDER BY stat_date, employee_id
	`

	return r.queryStats(ctx, query, domain.DateOnly(from), domain.DateOnly(to))
}

func (r *DailyStatRepository) queryStats(ctx context.Context, query string, args ...any) ([]*domain.DailyStat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.DailyStat
	for rows.Next() {
		stat, err := scanDailyStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyStat(row rowScanner) (*domain.DailyStat, error) {
	var (
		stat   domain.DailyStat
		counts []byte
	)

	if err := row.Scan(&stat.EmployeeID, &stat.Date, &counts, &stat.Total, &stat.LastSyncedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(counts, &stat.Counts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal counts: %w", err)
	}

	return &stat, nil
}
