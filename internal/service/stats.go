package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldcrew/statsync/internal/domain"
)

// DashboardStats is the operator dashboard snapshot: today's totals and
// the most recent sync run
type DashboardStats struct {
	Today      map[domain.Category]int `json:"today_by_category"`
	TotalToday int                     `json:"total_today"`
	LastRun    *domain.SyncRun         `json:"last_run,omitempty"`
	RunsTotal  int                     `json:"runs_total"`
}

// StatsService aggregates dashboard statistics
type StatsService struct {
	stats domain.DailyStatRepository
	runs  domain.SyncRunRepository
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(stats domain.DailyStatRepository, runs domain.SyncRunRepository) *StatsService {
	return &StatsService{
		stats: stats,
		runs:  runs,
		now:   time.Now,
	}
}

// GetStats retrieves aggregated statistics for the dashboard
func (s *StatsService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	midnight := domain.DateOnly(now)

	rows, err := s.stats.ListAllRange(ctx, midnight, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	out := &DashboardStats{
		Today: make(map[domain.Category]int),
	}

	for _, row := range rows {
		for c, n := range row.Counts {
			out.Today[c] += n
		}
		out.TotalToday += row.Total
	}

	runs, total, err := s.runs.List(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync runs: %w", err)
	}

	out.RunsTotal = total
	if len(runs) > 0 {
		out.LastRun = runs[0]
	}

	return out, nil
}
