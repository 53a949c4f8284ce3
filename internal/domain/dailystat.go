package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyStat is one employee's survey outcomes for one calendar day.
// At most one row exists per (employee_id, date). Every successful sync
// recomputes the row wholesale from the current CRM counters, never
// increments it, which is what makes re-runs idempotent.
type DailyStat struct {
	EmployeeID   uuid.UUID        `json:"employee_id"`
	Date         time.Time        `json:"date"`
	Counts       map[Category]int `json:"counts_by_category"`
	Total        int              `json:"total"`
	LastSyncedAt time.Time        `json:"last_synced_at"`
}

// ComputeTotal recomputes Total from the category counts
func (d *DailyStat) ComputeTotal() {
	total := 0
	for _, n := range d.Counts {
		total += n
	}
	d.Total = total
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
