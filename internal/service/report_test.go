package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/statsync/internal/cache"
	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/notify"
)

// fakeTimeClockRepo is an in-memory TimeEntryRepository
type fakeTimeClockRepo struct {
	entries []*domain.TimeEntry
}

func (f *fakeTimeClockRepo) ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.TimeEntry, error) {
	var out []*domain.TimeEntry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && !e.ClockIn.Before(from) && !e.ClockIn.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeInactivityRepo is an in-memory InactivityRepository
type fakeInactivityRepo struct {
	incidents []*domain.InactivityIncident
}

func (f *fakeInactivityRepo) ListRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.InactivityIncident, error) {
	var out []*domain.InactivityIncident
	for _, inc := range f.incidents {
		if inc.EmployeeID == employeeID && !inc.OccurredAt.Before(from) && !inc.OccurredAt.After(to) {
			out = append(out, inc)
		}
	}
	return out, nil
}

// recordingEmailSender captures outgoing email
type recordingEmailSender struct {
	sent []string
}

func (s *recordingEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return nil
}

// recordingSMSSender captures outgoing SMS
type recordingSMSSender struct {
	sent []string
}

func (s *recordingSMSSender) SendSMS(ctx context.Context, to, message string) error {
	s.sent = append(s.sent, to)
	return nil
}

func newTestReportService(
	employees *fakeEmployeeRepo,
	stats *fakeStatRepo,
	timeclock *fakeTimeClockRepo,
	inactivity *fakeInactivityRepo,
	fanout *notify.Fanout,
) *ReportService {
	svc := NewReportService(employees, stats, timeclock, inactivity, fanout, cache.NewNoOpCache())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 11, 7, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 6, 11, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		period domain.ReportPeriod
		from   time.Time
		to     time.Time
	}{
		{
			period: domain.PeriodToday,
			from:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			to:     now,
		},
		{
			period: domain.PeriodYesterday,
			from:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			to:     time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC),
		},
		{
			period: domain.PeriodLast7Days,
			from:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			to:     now,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r := domain.PeriodRange(tt.period, now)
			assert.Equal(t, tt.from, r.From)
			assert.Equal(t, tt.to, r.To)
		})
	}
}

func TestGenerateMergesThreeSources(t *testing.T) {
	smith := testEmployee("John", "Smith", "")
	jones := testEmployee("Mary", "Jones", "")
	idle := testEmployee("Idle", "Nobody", "")

	yesterday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	stats := newFakeStatRepo()
	require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
		EmployeeID: smith.ID,
		Date:       yesterday,
		Counts:     map[domain.Category]int{domain.CategoryInstall: 2, domain.CategoryStillContacting: 3},
		Total:      5,
	}))

	clockOut := yesterday.Add(16 * time.Hour)
	timeclock := &fakeTimeClockRepo{entries: []*domain.TimeEntry{
		{
			ID:         uuid.New(),
			EmployeeID: smith.ID,
			ClockIn:    yesterday.Add(8 * time.Hour),
			ClockOut:   &clockOut,
		},
		// jones clocked in but has no survey rows; still included
		{
			ID:         uuid.New(),
			EmployeeID: jones.ID,
			ClockIn:    yesterday.Add(9 * time.Hour),
		},
	}}
	inactivity := &fakeInactivityRepo{incidents: []*domain.InactivityIncident{
		{
			ID:              uuid.New(),
			EmployeeID:      smith.ID,
			OccurredAt:      yesterday.Add(12 * time.Hour),
			DurationMinutes: 45,
		},
	}}

	svc := newTestReportService(
		&fakeEmployeeRepo{employees: []*domain.Employee{smith, jones, idle}},
		stats, timeclock, inactivity,
		notify.NewFanout(nil, nil),
	)

	rpt, err := svc.Generate(context.Background(), domain.PeriodYesterday)
	require.NoError(t, err)

	// idle has no data in any source and is excluded
	require.Len(t, rpt.Employees, 2)

	var smithSummary, jonesSummary *domain.EmployeeReportSummary
	for i := range rpt.Employees {
		switch rpt.Employees[i].EmployeeID {
		case smith.ID:
			smithSummary = &rpt.Employees[i]
		case jones.ID:
			jonesSummary = &rpt.Employees[i]
		}
	}
	require.NotNil(t, smithSummary)
	require.NotNil(t, jonesSummary)

	assert.Equal(t, 5, smithSummary.TotalSurveys)
	assert.InDelta(t, 0.4, smithSummary.InstallRate, 1e-9)
	assert.InDelta(t, 8.0, smithSummary.HoursWorked, 1e-9)
	assert.Equal(t, 1, smithSummary.ShiftCount)
	assert.Equal(t, 45, smithSummary.InactivityMinutes)

	// open shift counts as a shift with zero hours
	assert.Equal(t, 0, jonesSummary.TotalSurveys)
	assert.Equal(t, 1, jonesSummary.ShiftCount)
	assert.InDelta(t, 0.0, jonesSummary.HoursWorked, 1e-9)

	assert.Equal(t, 5, rpt.Totals.TotalSurveys)
	assert.Equal(t, 2, rpt.Totals.Employees)
	assert.InDelta(t, 0.4, rpt.Totals.InstallRate, 1e-9)
}

func TestGenerateRejectsUnknownPeriod(t *testing.T) {
	svc := newTestReportService(&fakeEmployeeRepo{}, newFakeStatRepo(), &fakeTimeClockRepo{}, &fakeInactivityRepo{}, notify.NewFanout(nil, nil))

	_, err := svc.Generate(context.Background(), domain.ReportPeriod("last_month"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report period")
}

func TestTopPerformersRankedByInstalls(t *testing.T) {
	yesterday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	stats := newFakeStatRepo()

	var emps []*domain.Employee
	installs := []int{1, 4, 2, 4}
	for i, n := range installs {
		emp := testEmployee("Emp", string(rune('A'+i)), "")
		emps = append(emps, emp)
		require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
			EmployeeID: emp.ID,
			Date:       yesterday,
			Counts:     map[domain.Category]int{domain.CategoryInstall: n},
			Total:      n,
		}))
	}

	svc := newTestReportService(
		&fakeEmployeeRepo{employees: emps},
		stats, &fakeTimeClockRepo{}, &fakeInactivityRepo{},
		notify.NewFanout(nil, nil),
	)

	rpt, err := svc.Generate(context.Background(), domain.PeriodYesterday)
	require.NoError(t, err)

	require.Len(t, rpt.TopPerformers, 3)
	assert.Equal(t, 4, rpt.TopPerformers[0].Installs())
	assert.Equal(t, 4, rpt.TopPerformers[1].Installs())
	assert.Equal(t, 2, rpt.TopPerformers[2].Installs())

	// ties keep roster order
	assert.Equal(t, emps[1].ID, rpt.TopPerformers[0].EmployeeID)
	assert.Equal(t, emps[3].ID, rpt.TopPerformers[1].EmployeeID)
}

func TestSendDeliversBothChannels(t *testing.T) {
	smith := testEmployee("John", "Smith", "")
	yesterday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	stats := newFakeStatRepo()
	require.NoError(t, stats.Upsert(context.Background(), &domain.DailyStat{
		EmployeeID: smith.ID,
		Date:       yesterday,
		Counts:     map[domain.Category]int{domain.CategoryInstall: 1},
		Total:      1,
	}))

	email := &recordingEmailSender{}
	sms := &recordingSMSSender{}

	svc := newTestReportService(
		&fakeEmployeeRepo{employees: []*domain.Employee{smith}},
		stats, &fakeTimeClockRepo{}, &fakeInactivityRepo{},
		notify.NewFanout(email, sms),
	)

	result, err := svc.Send(context.Background(), domain.PeriodYesterday,
		[]string{"boss@example.com", "ops@example.com"}, []string{"+15550001111"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Delivery.EmailsSent)
	assert.Equal(t, 1, result.Delivery.SMSSent)
	assert.Equal(t, []string{"boss@example.com", "ops@example.com"}, email.sent)
	assert.Equal(t, []string{"+15550001111"}, sms.sent)
}
