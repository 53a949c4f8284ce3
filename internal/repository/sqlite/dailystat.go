package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// DailyStatRepository implements domain.DailyStatRepository for SQLite
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
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, stat_date) DO UPDATE SET
			counts = excluded.counts,
			total = excluded.total,
			last_synced_at = excluded.last_synced_at
	`

	_, err = r.db.ExecContext(ctx, query,
		stat.EmployeeID.String(), domain.DateOnly(stat.Date).Format(dateLayout),
		string(counts), stat.Total, stat.LastSyncedAt.Format(timeLayout))
	return err
}

// GetByEmployeeDate retrieves a single row, nil if absent
func (r *DailyStatRepository) GetByEmployeeDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*domain.DailyStat, error) {
	query := `
		SELECT employee_id, stat_date, counts, total, last_synced_at
		FROM daily_stats
		WHERE employee_id = ? AND stat_date = ?
	`

	stat, err := scanDailyStat(r.db.QueryRowContext(ctx, query, employeeID.String(), domain.DateOnly(date).Format(dateLayout)))
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
		WHERE employee_id = ? AND stat_date >= ? AND stat_date <= ?
		ORDER BY stat_date
	`

	return r.queryStats(ctx, query, employeeID.String(),
		domain.DateOnly(from).Format(dateLayout), domain.DateOnly(to).Format(dateLayout))
}

// ListAllRange retrieves all rows within [from, to]
func (r *DailyStatRepository) ListAllRange(ctx context.Context, from, to time.Time) ([]*domain.DailyStat, error) {
	query := `
		SELECT employee_id, stat_date, counts, total, last_synced_at
		FROM daily_stats
		WHERE stat_date >= ? AND stat_date <= ?
		ORDER BY stat_date, employee_id
	`

	return r.queryStats(ctx, query,
		domain.DateOnly(from).Format(dateLayout), domain.DateOnly(to).Format(dateLayout))
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
		stat                     domain.DailyStat
		employeeID, date, synced string
		counts                   string
	)

	if err := row.Scan(&employeeID, &date, &counts, &stat.Total, &synced); err != nil {
		return nil, err
	}

	stat.EmployeeID, _ = uuid.Parse(employeeID)
	stat.LastSyncedAt = parseStoredTime(synced)

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stat date %q: %w", date, err)
	}
	stat.Date = parsed

	if err := json.Unmarshal([]byte(counts), &stat.Counts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal counts: %w", err)
	}

	return &stat, nil
}
