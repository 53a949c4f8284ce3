package pipeline

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// Aggregator combines resolved (employee, category, count) tuples into
// one DailyStat per employee for the run day. The date is always the day
// the run executes: the CRM reports carry current-state counters, not
// event timestamps, so each run replaces the day's totals wholesale.
type Aggregator struct {
	date  time.Time
	stats map[uuid.UUID]*domain.DailyStat
}

// NewAggregator creates an aggregator for the given run day
func NewAggregator(runDay time.Time) *Aggregator {
	return &Aggregator{
		date:  domain.DateOnly(runDay),
		stats: make(map[uuid.UUID]*domain.DailyStat),
	}
}

// Add accumulates a count for an employee and category
func (a *Aggregator) Add(employeeID uuid.UUID, category domain.Category, count int) {
	st, ok := a.stats[employeeID]
	if !ok {
		st = &domain.DailyStat{
			EmployeeID: employeeID,
			Date:       a.date,
			Counts:     make(map[domain.Category]int),
		}
		a.stats[employeeID] = st
	}

	st.Counts[category] += count
}

// Results returns the aggregates with totals computed, ordered by
// employee ID for deterministic upserts and logs
func (a *Aggregator) Results() []*domain.DailyStat {
	out := make([]*domain.DailyStat, 0, len(a.stats))
	for _, st := range a.stats {
		st.ComputeTotal()
		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EmployeeID.String() < out[j].EmployeeID.String()
	})

	return out
}
