package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a single clock-in/clock-out pair from the time-clock
// subsystem. An entry still open (no clock-out) counts as a shift but
// contributes zero hours.
type TimeEntry struct {
	ID         uuid.UUID  `json:"id"`
	EmployeeID uuid.UUID  `json:"employee_id"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
}

// Hours returns the worked hours for the entry, zero if still open
func (t *TimeEntry) Hours() float64 {
	if t.ClockOut == nil {
		return 0
	}
	return t.ClockOut.Sub(t.ClockIn).Hours()
}

// InactivityIncident records a stretch of GPS/app inactivity flagged for
// an employee during a shift
type InactivityIncident struct {
	ID              uuid.UUID `json:"id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	OccurredAt      time.Time `json:"occurred_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason,omitempty"`
}
