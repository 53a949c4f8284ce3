package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportPeriod is an admin-chosen reporting window
type ReportPeriod string

const (
	PeriodToday     ReportPeriod = "today"
	PeriodYesterday ReportPeriod = "yesterday"
	PeriodLast7Days ReportPeriod = "last_7_days"
)

// IsValid returns true if the period is known
func (p ReportPeriod) IsValid() bool {
	return p == PeriodToday || p == PeriodYesterday || p == PeriodLast7Days
}

// DateRange is a closed time window
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// PeriodRange resolves a report period to a concrete date range
// relative to now:
//
//	today:       [midnight today, now]
//	yesterday:   [midnight yesterday, 23:59:59 yesterday]
//	last_7_days: [midnight 7 days ago, now]
func PeriodRange(period ReportPeriod, now time.Time) DateRange {
	midnight := DateOnly(now)

	switch period {
	case PeriodYesterday:
		start := midnight.AddDate(0, 0, -1)
		return DateRange{From: start, To: midnight.Add(-time.Second)}
	case PeriodLast7Days:
		return DateRange{From: midnight.AddDate(0, 0, -7), To: now}
	default: // today
		return DateRange{From: midnight, To: now}
	}
}

// EmployeeReportSummary merges one employee's survey outcomes,
// time-clock hours and inactivity incidents over a report window.
// Each source is fetched independently; missing sources stay zero.
type EmployeeReportSummary struct {
	EmployeeID   uuid.UUID        `json:"employee_id"`
	Name         string           `json:"name"`
	Counts       map[Category]int `json:"counts_by_category"`
	TotalSurveys int              `json:"total_surveys"`
	InstallRate  float64          `json:"install_rate"`

	HoursWorked float64     `json:"hours_worked"`
	ShiftCount  int         `json:"shift_count"`
	Shifts      []TimeEntry `json:"shifts,omitempty"`

	InactivityMinutes int                  `json:"inactivity_minutes"`
	InactivityCount   int                  `json:"inactivity_count"`
	Incidents         []InactivityIncident `json:"incidents,omitempty"`
}

// Installs returns the install count for ranking
func (s *EmployeeReportSummary) Installs() int {
	return s.Counts[CategoryInstall]
}

// HasData returns true if any upstream source had data for the employee
func (s *EmployeeReportSummary) HasData() bool {
	return s.TotalSurveys > 0 || s.ShiftCount > 0 || s.InactivityCount > 0
}

// TeamTotals is the elementwise sum across all included employees
type TeamTotals struct {
	Counts            map[Category]int `json:"counts_by_category"`
	TotalSurveys      int              `json:"total_surveys"`
	InstallRate       float64          `json:"install_rate"`
	HoursWorked       float64          `json:"hours_worked"`
	ShiftCount        int              `json:"shift_count"`
	InactivityMinutes int              `json:"inactivity_minutes"`
	InactivityCount   int              `json:"inactivity_count"`
	Employees         int              `json:"employees"`
}

// PeriodReport is the on-demand, non-persisted aggregation rendered for
// human consumption
type PeriodReport struct {
	Period        ReportPeriod            `json:"period"`
	Range         DateRange               `json:"date_range"`
	Employees     []EmployeeReportSummary `json:"per_employee"`
	Totals        TeamTotals              `json:"team_totals"`
	TopPerformers []EmployeeReportSummary `json:"top_performers,omitempty"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// DeliveryReport summarizes a fan-out attempt across both channels
type DeliveryReport struct {
	EmailsSent  int `json:"emails_sent"`
	SMSSent     int `json:"sms_sent"`
	EmailFailed int `json:"email_failed"`
	SMSFailed   int `json:"sms_failed"`
}
