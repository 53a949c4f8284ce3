package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fieldcrew/statsync/internal/cache"
	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/notify"
	"github.com/fieldcrew/statsync/internal/report"
)

// TopPerformerCount is how many employees the terse summary ranks
const TopPerformerCount = 3

// ReportService re-aggregates persisted per-day summaries over a date
// window and delivers the rendered representations
type ReportService struct {
	employees  domain.EmployeeRepository
	stats      domain.DailyStatRepository
	timeclock  domain.TimeEntryRepository
	inactivity domain.InactivityRepository
	fanout     *notify.Fanout
	cache      cache.Cache
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	employees domain.EmployeeRepository,
	stats domain.DailyStatRepository,
	timeclock domain.TimeEntryRepository,
	inactivity domain.InactivityRepository,
	fanout *notify.Fanout,
	c cache.Cache,
) *ReportService {
	return &ReportService{
		employees:  employees,
		stats:      stats,
		timeclock:  timeclock,
		inactivity: inactivity,
		fanout:     fanout,
		cache:      c,
		now:        time.Now,
	}
}

// Generate builds a PeriodReport for the period ending now. Each
// employee's three sources are fetched and summed independently; an
// employee with no data in any source is excluded so an all-zero roster
// does not bury real signal.
func (s *ReportService) Generate(ctx context.Context, period domain.ReportPeriod) (*domain.PeriodReport, error) {
	if !period.IsValid() {
		return nil, fmt.Errorf("unknown report period %q", period)
	}

	now := s.now()
	dateRange := domain.PeriodRange(period, now)

	employees, err := s.employees.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	rpt := &domain.PeriodReport{
		Period:      period,
		Range:       dateRange,
		GeneratedAt: now,
		Totals:      domain.TeamTotals{Counts: make(map[domain.Category]int)},
	}

	for _, emp := range employees {
		summary, err := s.summarize(ctx, emp, dateRange)
		if err != nil {
			return nil, err
		}

		if !summary.HasData() {
			continue
		}

		rpt.Employees = append(rpt.Employees, *summary)
		addToTotals(&rpt.Totals, summary)
	}

	if rpt.Totals.TotalSurveys > 0 {
		rpt.Totals.InstallRate = float64(rpt.Totals.Counts[domain.CategoryInstall]) / float64(rpt.Totals.TotalSurveys)
	}
	rpt.Totals.Employees = len(rpt.Employees)
	rpt.TopPerformers = topPerformers(rpt.Employees, TopPerformerCount)

	return rpt, nil
}

// summarize merges one employee's survey outcomes, time-clock entries and
// inactivity incidents over the window
func (s *ReportService) summarize(ctx context.Context, emp *domain.Employee, r domain.DateRange) (*domain.EmployeeReportSummary, error) {
	summary := &domain.EmployeeReportSummary{
		EmployeeID: emp.ID,
		Name:       emp.FullName(),
		Counts:     make(map[domain.Category]int),
	}

	stats, err := s.stats.ListRange(ctx, emp.ID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats for %s: %w", emp.ID, err)
	}

	for _, st := range stats {
		for c, n := range st.Counts {
			summary.Counts[c] += n
		}
		summary.TotalSurveys += st.Total
	}

	if summary.TotalSurveys > 0 {
		summary.InstallRate = float64(summary.Installs()) / float64(summary.TotalSurveys)
	}

	entries, err := s.timeclock.ListRange(ctx, emp.ID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries for %s: %w", emp.ID, err)
	}

	for _, entry := range entries {
		summary.HoursWorked += entry.Hours()
	}
	summary.ShiftCount = len(entries)
	for _, entry := range entries {
		summary.Shifts = append(summary.Shifts, *entry)
	}

	incidents, err := s.inactivity.ListRange(ctx, emp.ID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load inactivity incidents for %s: %w", emp.ID, err)
	}

	for _, inc := range incidents {
		summary.InactivityMinutes += inc.DurationMinutes
		summary.Incidents = append(summary.Incidents, *inc)
	}
	summary.InactivityCount = len(incidents)

	return summary, nil
}

func addToTotals(totals *domain.TeamTotals, s *domain.EmployeeReportSummary) {
	for c, n := range s.Counts {
		totals.Counts[c] += n
	}
	totals.TotalSurveys += s.TotalSurveys
	totals.HoursWorked += s.HoursWorked
	totals.ShiftCount += s.ShiftCount
	totals.InactivityMinutes += s.InactivityMinutes
	totals.InactivityCount += s.InactivityCount
}

// topPerformers ranks by install count descending, ties broken by
// encounter order, truncated to n
func topPerformers(employees []domain.EmployeeReportSummary, n int) []domain.EmployeeReportSummary {
	ranked := make([]domain.EmployeeReportSummary, len(employees))
	copy(ranked, employees)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Installs() > ranked[j].Installs()
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// SendResult is the outcome of a report delivery
type SendResult struct {
	Period    domain.ReportPeriod   `json:"period"`
	DateRange domain.DateRange      `json:"date_range"`
	Delivery  domain.DeliveryReport `json:"delivery"`
}

// Send generates the report for a period, renders both representations
// and fans them out to the recipient lists
func (s *ReportService) Send(ctx context.Context, period domain.ReportPeriod, emailRecipients, smsRecipients []string) (*SendResult, error) {
	rpt, err := s.Generate(ctx, period)
	if err != nil {
		return nil, err
	}

	digest := report.RenderDigest(rpt)
	summary := report.RenderSummary(rpt)

	delivery, err := s.fanout.Deliver(ctx, digest, summary, emailRecipients, smsRecipients)
	if err != nil {
		return nil, err
	}

	log.Printf("period report %s delivered: %d email(s), %d sms", period, delivery.EmailsSent, delivery.SMSSent)

	return &SendResult{
		Period:    period,
		DateRange: rpt.Range,
		Delivery:  *delivery,
	}, nil
}

// RenderPreview renders both representations without delivering them.
// Rendered output is cached briefly per period.
func (s *ReportService) RenderPreview(ctx context.Context, period domain.ReportPeriod) (digest, summary string, err error) {
	key := cache.KeyPrefixPeriodReport + ":" + string(period)

	if s.cache != nil {
		if data, cerr := s.cache.Get(ctx, key); cerr == nil {
			parts := splitPreview(data)
			if parts != nil {
				return parts[0], parts[1], nil
			}
		}
	}

	rpt, err := s.Generate(ctx, period)
	if err != nil {
		return "", "", err
	}

	digest = report.RenderDigest(rpt)
	summary = report.RenderSummary(rpt)

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, key, joinPreview(digest, summary), cache.TTLPeriodReport); cerr != nil {
			log.Printf("warning: failed to cache period report: %v", cerr)
		}
	}

	return digest, summary, nil
}

type previewPayload struct {
	Digest  string `json:"digest"`
	Summary string `json:"summary"`
}

func joinPreview(digest, summary string) []byte {
	data, _ := json.Marshal(previewPayload{Digest: digest, Summary: summary})
	return data
}

func splitPreview(data []byte) []string {
	var p previewPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Digest == "" {
		return nil
	}
	return []string{p.Digest, p.Summary}
}
