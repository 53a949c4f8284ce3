package watchdog

import (
	"context"
	"log"
	"time"

	"github.com/fieldcrew/statsync/internal/domain"
)

// DefaultInterval is how often staleness is checked
const DefaultInterval = 5 * time.Minute

// DefaultMaxAge is how old the last completed run may get before the
// watchdog starts complaining
const DefaultMaxAge = 2 * time.Hour

// Monitor watches the sync run history and logs when the aggregates go
// stale, so a dead cron or broken CRM credential is noticed before the
// morning report ships zeros
type Monitor struct {
	runs     domain.SyncRunRepository
	interval time.Duration
	maxAge   time.Duration
}

// NewMonitor creates a new staleness monitor
func NewMonitor(runs domain.SyncRunRepository, interval, maxAge time.Duration) *Monitor {
	if interval == 0 {
		interval = DefaultInterval
	}
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	return &Monitor{
		runs:     runs,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run starts the monitor and blocks until the context is canceled
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Printf("sync watchdog started (interval: %s, max age: %s)", m.interval, m.maxAge)

	for {
		select {
		case <-ctx.Done():
			log.Println("sync watchdog stopped")
			return nil
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	runs, _, err := m.runs.List(ctx, 1, 0)
	if err != nil {
		log.Printf("error checking sync staleness: %v", err)
		return
	}

	if len(runs) == 0 {
		log.Printf("warning: no sync has ever run")
		return
	}

	last := runs[0]

	if last.Status == domain.SyncRunStatusFailed {
		log.Printf("warning: last sync run %s failed: %s", last.ID, last.ErrorMessage)
	}

	age := time.Since(last.StartedAt)
	if age > m.maxAge {
		log.Printf("warning: last sync run started %s ago, aggregates are stale", age.Round(time.Minute))
	}
}
