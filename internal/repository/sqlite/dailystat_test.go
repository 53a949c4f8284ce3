package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/statsync/internal/domain"
)

func openTestDB(t *testing.T) *Repositories {
	t.Helper()

	db, err := OpenConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	return NewRepositories(db)
}

func TestDailyStatUpsertReplacesWholesale(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	employeeID := uuid.New()
	day := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	first := &domain.DailyStat{
		EmployeeID:   employeeID,
		Date:         day,
		Counts:       map[domain.Category]int{domain.CategoryStillContacting: 4},
		Total:        4,
		LastSyncedAt: day,
	}
	require.NoError(t, repos.DailyStats.Upsert(ctx, first))

	// A later sync for the same day overwrites, never accumulates
	second := &domain.DailyStat{
		EmployeeID:   employeeID,
		Date:         day.Add(2 * time.Hour),
		Counts:       map[domain.Category]int{domain.CategoryInstall: 1},
		Total:        1,
		LastSyncedAt: day.Add(2 * time.Hour),
	}
	require.NoError(t, repos.DailyStats.Upsert(ctx, second))

	got, err := repos.DailyStats.GetByEmployeeDate(ctx, employeeID, day)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 1, got.Total)
	assert.Equal(t, map[domain.Category]int{domain.CategoryInstall: 1}, got.Counts)
	assert.Equal(t, domain.DateOnly(day), got.Date)
}

func TestDailyStatGetByEmployeeDateMissing(t *testing.T) {
	repos := openTestDB(t)

	got, err := repos.DailyStats.GetByEmployeeDate(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDailyStatListRange(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	employeeID := uuid.New()
	other := uuid.New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		stat := &domain.DailyStat{
			EmployeeID:   employeeID,
			Date:         base.AddDate(0, 0, i),
			Counts:       map[domain.Category]int{domain.CategoryDemo: i + 1},
			Total:        i + 1,
			LastSyncedAt: base,
		}
		require.NoError(t, repos.DailyStats.Upsert(ctx, stat))
	}
	require.NoError(t, repos.DailyStats.Upsert(ctx, &domain.DailyStat{
		EmployeeID:   other,
		Date:         base.AddDate(0, 0, 2),
		Counts:       map[domain.Category]int{domain.CategoryInstall: 7},
		Total:        7,
		LastSyncedAt: base,
	}))

	stats, err := repos.DailyStats.ListRange(ctx, employeeID, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, base.AddDate(0, 0, 1), stats[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 3), stats[2].Date)
	for _, stat := range stats {
		assert.Equal(t, employeeID, stat.EmployeeID)
	}

	all, err := repos.DailyStats.ListAllRange(ctx, base, base.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestSyncRunRoundTrip(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	run := &domain.SyncRun{
		ID:        uuid.New(),
		StartedAt: time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC),
		Status:    domain.SyncRunStatusRunning,
	}
	require.NoError(t, repos.SyncRuns.Create(ctx, run))

	run.UnmappedStatuses = []string{"Qualified"}
	run.UnmatchedActors = []string{"Unknown Person"}
	run.Complete(run.StartedAt.Add(time.Minute), 12)
	require.NoError(t, repos.SyncRuns.Finish(ctx, run))

	got, err := repos.SyncRuns.GetByID(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SyncRunStatusCompleted, got.Status)
	assert.Equal(t, 12, got.RecordsProcessed)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, []string{"Qualified"}, got.UnmappedStatuses)
	assert.Equal(t, []string{"Unknown Person"}, got.UnmatchedActors)

	runs, total, err := repos.SyncRuns.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}
