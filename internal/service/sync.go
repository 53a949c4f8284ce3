package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/cache"
	"github.com/fieldcrew/statsync/internal/crm"
	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/pipeline"
	"github.com/fieldcrew/statsync/tlmt"
)

var (
	// ErrNoMappings means the mapping table is empty; every row would be
	// skipped, which is a configuration error rather than an empty day
	ErrNoMappings = errors.New("no status mappings configured")

	// ErrNoReportSources means neither the lead nor the appointment
	// report ID is configured
	ErrNoReportSources = errors.New("no report sources configured")
)

// ReportFetcher fetches a tabular report from the CRM
type ReportFetcher interface {
	FetchReport(ctx context.Context, reportID string) (*crm.ReportPayload, error)
}

// SyncConfig identifies the external report sources. Either or both may
// be set.
type SyncConfig struct {
	LeadReportID        string
	AppointmentReportID string
}

// SyncService drives one reconciliation run end to end: load the mapping
// snapshot, fetch and parse each configured report, resolve statuses and
// identities, aggregate per employee for the run day, and upsert the
// results. The run is audited as a SyncRun record.
type SyncService struct {
	fetcher   ReportFetcher
	mappings  domain.StatusMappingRepository
	employees domain.EmployeeRepository
	stats     domain.DailyStatRepository
	runs      domain.SyncRunRepository
	cfg       SyncConfig
	telemetry tlmt.Telemetry
	cache     cache.Cache
	now       func() time.Time
}

// NewSyncService creates a new SyncService
func NewSyncService(
	fetcher ReportFetcher,
	mappings domain.StatusMappingRepository,
	employees domain.EmployeeRepository,
	stats domain.DailyStatRepository,
	runs domain.SyncRunRepository,
	cfg SyncConfig,
	telemetry tlmt.Telemetry,
	c cache.Cache,
) *SyncService {
	return &SyncService{
		fetcher:   fetcher,
		mappings:  mappings,
		employees: employees,
		stats:     stats,
		runs:      runs,
		cfg:       cfg,
		telemetry: telemetry,
		cache:     c,
		now:       time.Now,
	}
}

type reportSource struct {
	reportID   string
	recordType domain.RecordType
}

func (s *SyncService) sources() []reportSource {
	var out []reportSource
	if s.cfg.LeadReportID != "" {
		out = append(out, reportSource{reportID: s.cfg.LeadReportID, recordType: domain.RecordTypeLead})
	}
	if s.cfg.AppointmentReportID != "" {
		out = append(out, reportSource{reportID: s.cfg.AppointmentReportID, recordType: domain.RecordTypeAppointment})
	}
	return out
}

// Run executes one sync run. The returned SyncRun is always non-nil once
// the run record was created; a non-nil error means the run failed and
// the record carries the error message.
func (s *SyncService) Run(ctx context.Context) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.New(),
		StartedAt: s.now(),
		Status:    domain.SyncRunStatusRunning,
	}

	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}

	log.Printf("sync run %s started", run.ID)

	processed, diag, err := s.execute(ctx)
	if err != nil {
		run.Fail(s.now(), err)
		if ferr := s.runs.Finish(ctx, run); ferr != nil {
			log.Printf("warning: failed to record failed run %s: %v", run.ID, ferr)
		}

		log.Printf("sync run %s failed: %v", run.ID, err)
		s.emit(ctx, "sync.run_failed", map[string]any{"error": err.Error()})

		return run, err
	}

	run.UnmappedStatuses = diag.UnmappedStatuses()
	run.UnmatchedActors = diag.UnmatchedActors()
	run.Complete(s.now(), processed)

	if err := s.runs.Finish(ctx, run); err != nil {
		log.Printf("warning: failed to record completed run %s: %v", run.ID, err)
	}

	s.invalidateCaches(ctx)
	s.logDiagnostics(run, diag)
	s.emit(ctx, "sync.run_completed", map[string]any{
		"records_processed": processed,
		"unmapped_statuses": len(run.UnmappedStatuses),
		"unmatched_actors":  len(run.UnmatchedActors),
		"alias_resolutions": diag.AliasResolutions,
		"name_resolutions":  diag.NameResolutions,
	})

	return run, nil
}

// execute performs the fatal-on-error portion of the run and returns the
// number of rows successfully upserted
func (s *SyncService) execute(ctx context.Context) (int, *pipeline.Diagnostics, error) {
	diag := pipeline.NewDiagnostics()

	sources := s.sources()
	if len(sources) == 0 {
		return 0, diag, ErrNoReportSources
	}

	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return 0, diag, fmt.Errorf("failed to load status mappings: %w", err)
	}

	resolver := pipeline.NewMappingResolver(mappings)
	if resolver.Size() == 0 {
		return 0, diag, ErrNoMappings
	}

	employees, err := s.employees.List(ctx, true)
	if err != nil {
		return 0, diag, fmt.Errorf("failed to load employees: %w", err)
	}

	identities := pipeline.NewIdentityResolver(employees)
	agg := pipeline.NewAggregator(s.now())

	for _, src := range sources {
		payload, err := s.fetcher.FetchReport(ctx, src.reportID)
		if err != nil {
			// a missing source would make the aggregates silently
			// partial, so the whole run fails
			return 0, diag, fmt.Errorf("failed to fetch %s report: %w", src.recordType, err)
		}

		for _, row := range pipeline.ParseReport(payload) {
			// both lookups run for every row: a row with an unmapped
			// status and an unknown actor yields both diagnostics
			category, mapped := resolver.Resolve(row.Status, src.recordType)
			if !mapped {
				diag.RecordUnmapped(row.Status)
			}

			res, matched := identities.Resolve(row.ActorLabel)
			if !matched {
				diag.RecordUnmatched(row.ActorLabel)
			}

			if !mapped || !matched {
				diag.RecordSkipped()
				continue
			}

			diag.RecordResolution(res)
			agg.Add(res.EmployeeID, category, row.Count)
		}
	}

	syncedAt := s.now()
	processed := 0

	for _, stat := range agg.Results() {
		stat.LastSyncedAt = syncedAt

		if err := s.stats.Upsert(ctx, stat); err != nil {
			log.Printf("warning: failed to upsert daily stat for employee %s: %v", stat.EmployeeID, err)
			continue
		}

		processed++
	}

	return processed, diag, nil
}

// invalidateCaches drops cached dashboards and rendered reports so the
// next read reflects the fresh aggregates
func (s *SyncService) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.KeyPrefixDashboardStats); err != nil {
		log.Printf("warning: failed to invalidate stats cache: %v", err)
	}
	if err := s.cache.DeleteByPattern(ctx, cache.KeyPrefixPeriodReport+":*"); err != nil {
		log.Printf("warning: failed to invalidate report cache: %v", err)
	}
}

func (s *SyncService) logDiagnostics(run *domain.SyncRun, diag *pipeline.Diagnostics) {
	for _, status := range run.UnmappedStatuses {
		log.Printf("sync run %s: unmapped status %q seen in %d row(s); add a status mapping for it",
			run.ID, status, diag.UnmappedCount(status))
	}

	for _, actor := range run.UnmatchedActors {
		log.Printf("sync run %s: no employee matched surveyor %q; set an employee alias equal to that label",
			run.ID, actor)
	}

	log.Printf("sync run %s completed: %d row(s) upserted, %d alias / %d name resolutions, %d row(s) skipped",
		run.ID, run.RecordsProcessed, diag.AliasResolutions, diag.NameResolutions, diag.SkippedRows)
}

func (s *SyncService) emit(ctx context.Context, name string, props map[string]any) {
	if s.telemetry == nil {
		return
	}
	_ = s.telemetry.Send(ctx, tlmt.NewEvent(name, props))
}
