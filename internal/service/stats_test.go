package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/statsync/internal/domain"
)

func TestGetStatsSumsToday(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	today := domain.DateOnly(now)

	stats := newFakeStatRepo()
	require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
		EmployeeID: uuid.New(),
		Date:       today,
		Counts:     map[domain.Category]int{domain.CategoryInstall: 2},
		Total:      2,
	}))
	require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
		EmployeeID: uuid.New(),
		Date:       today,
		Counts:     map[domain.Category]int{domain.CategoryInstall: 1, domain.CategoryDead: 3},
		Total:      4,
	}))
	// yesterday's row must not leak into today's dashboard
	require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
		EmployeeID: uuid.New(),
		Date:       today.AddDate(0, 0, -1),
		Counts:     map[domain.Category]int{domain.CategoryDemo: 9},
		Total:      9,
	}))

	completedAt := now.Add(-time.Hour)
	runs := &fakeRunRepo{finished: []*domain.SyncRun{
		{
			ID:          uuid.New(),
			StartedAt:   now.Add(-2 * time.Hour),
			CompletedAt: &completedAt,
			Status:      domain.SyncRunStatusCompleted,
		},
	}}

	svc := NewStatsService(stats, runs)
	svc.now = func() time.Time { return now }

	out, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, out.TotalToday)
	assert.Equal(t, map[domain.Category]int{
		domain.CategoryInstall: 3,
		domain.CategoryDead:    3,
	}, out.Today)
	assert.Equal(t, 1, out.RunsTotal)
	require.NotNil(t, out.LastRun)
	assert.Equal(t, domain.SyncRunStatusCompleted, out.LastRun.Status)
}

func TestGetStatsEmptyDay(t *testing.T) {
	svc := NewStatsService(newFakeStatRepo(), &fakeRunRepo{})
	svc.now = func() time.Time { return time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC) }

	out, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalToday)
	assert.Empty(t, out.Today)
	assert.Nil(t, out.LastRun)
}
