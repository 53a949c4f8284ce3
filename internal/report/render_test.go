package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fieldcrew/statsync/internal/domain"
)

func sampleReport() *domain.PeriodReport {
	clockIn := time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)

	employees := []domain.EmployeeReportSummary{
		{
			EmployeeID: uuid.New(),
			Name:       "Maria Lopez",
			Counts: map[domain.Category]int{
				domain.CategoryInstall:         3,
				domain.CategoryStillContacting: 5,
			},
			TotalSurveys:      8,
			InstallRate:       0.375,
			HoursWorked:       8,
			ShiftCount:        1,
			Shifts:            []domain.TimeEntry{{ClockIn: clockIn, ClockOut: &clockOut}},
			InactivityMinutes: 25,
			InactivityCount:   1,
			Incidents: []domain.InactivityIncident{
				{OccurredAt: clockIn.Add(2 * time.Hour), DurationMinutes: 25, Reason: "no movement"},
			},
		},
		{
			EmployeeID:   uuid.New(),
			Name:         "John Smith",
			Counts:       map[domain.Category]int{domain.CategoryInstall: 1},
			TotalSurveys: 1,
			InstallRate:  1,
			HoursWorked:  4,
			ShiftCount:   1,
		},
	}

	r := &domain.PeriodReport{
		Period: domain.PeriodYesterday,
		Range: domain.DateRange{
			From: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 3, 13, 23, 59, 59, 0, time.UTC),
		},
		Employees: employees,
		Totals: domain.TeamTotals{
			Counts: map[domain.Category]int{
				domain.CategoryInstall:         4,
				domain.CategoryStillContacting: 5,
			},
			TotalSurveys:      9,
			InstallRate:       4.0 / 9.0,
			HoursWorked:       12,
			ShiftCount:        2,
			InactivityMinutes: 25,
			InactivityCount:   1,
			Employees:         2,
		},
		TopPerformers: []domain.EmployeeReportSummary{employees[0], employees[1]},
	}

	return r
}

func TestRenderDigest(t *testing.T) {
	out := RenderDigest(sampleReport())

	assert.Contains(t, out, "yesterday")
	assert.Contains(t, out, "Maria Lopez")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "Installs")
	assert.Contains(t, out, "Still contacting")
	assert.Contains(t, out, "Hours worked: 8.0 over 1 shift(s)")
	assert.Contains(t, out, "no movement")
	assert.Contains(t, out, "Team totals")
}

func TestRenderDigestOmitsAbsentSections(t *testing.T) {
	r := sampleReport()

	// an employee with surveys only: no shift table, no inactivity lines
	r.Employees = r.Employees[1:2]
	r.Employees[0].ShiftCount = 0
	r.Employees[0].HoursWorked = 0
	r.Totals.InactivityCount = 0

	out := RenderDigest(r)
	assert.Contains(t, out, "John Smith")
	assert.NotContains(t, out, "Inactivity")
	assert.NotContains(t, out, "clocked in")
}

func TestRenderDigestSkipsIncidentRowsWhenMany(t *testing.T) {
	r := sampleReport()
	r.Employees[0].InactivityCount = maxEnumeratedIncidents + 1
	r.Employees[0].InactivityMinutes = 300

	out := RenderDigest(r)
	assert.Contains(t, out, "6 incident(s), 300 minute(s)")
	assert.NotContains(t, out, "no movement")
}

func TestRenderDigestEmptyRoster(t *testing.T) {
	r := &domain.PeriodReport{
		Period: domain.PeriodToday,
		Totals: domain.TeamTotals{Counts: map[domain.Category]int{}},
	}

	out := RenderDigest(r)
	assert.Contains(t, out, "No activity recorded")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleReport())

	assert.Contains(t, out, "Team yesterday: 9 surveys, 4 installs (44%), 12.0h worked")
	assert.Contains(t, out, "1. Maria Lopez (3)")
	assert.Contains(t, out, "2. John Smith (1)")
	assert.False(t, strings.Contains(out, "\n"), "summary must be a single line")
}

func TestRenderSummaryNoPerformers(t *testing.T) {
	r := &domain.PeriodReport{
		Period: domain.PeriodToday,
		Totals: domain.TeamTotals{Counts: map[domain.Category]int{}},
	}

	out := RenderSummary(r)
	assert.Contains(t, out, "0 surveys")
	assert.NotContains(t, out, "Top:")
}
