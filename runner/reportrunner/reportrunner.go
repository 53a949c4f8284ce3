package reportrunner

import (
	"context"
	"log"

	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/runner"
)

// ReportRunner delivers one period report and exits
type ReportRunner struct {
	cfg      *runner.Config
	store    *runner.Store
	services *runner.Services
}

// New creates a new ReportRunner
func New(cfg *runner.Config) (runner.Runner, error) {
	store, err := runner.OpenStore(cfg.Dsn)
	if err != nil {
		return nil, err
	}

	return &ReportRunner{
		cfg:      cfg,
		store:    store,
		services: runner.BuildServices(cfg, store),
	}, nil
}

// Run refreshes the aggregates and delivers the report once. The
// refresh is skipped with -skip-sync, e.g. when a cron job already ran
// the sync moments before.
func (r *ReportRunner) Run(ctx context.Context) error {
	if !r.cfg.SkipSync {
		run, err := r.services.Sync.Run(ctx)
		if err != nil {
			return err
		}
		log.Printf("pre-report sync: run %s, %d records processed", run.ID, run.RecordsProcessed)
	}

	period := domain.ReportPeriod(r.cfg.Period)

	result, err := r.services.Reports.Send(ctx, period, r.cfg.EmailRecipients, r.cfg.SMSRecipients)
	if err != nil {
		return err
	}

	log.Printf("report delivered: %d email(s) sent (%d failed), %d sms sent (%d failed)",
		result.Delivery.EmailsSent, result.Delivery.EmailFailed,
		result.Delivery.SMSSent, result.Delivery.SMSFailed)

	return nil
}

// Close cleans up resources
func (r *ReportRunner) Close(_ context.Context) error {
	return r.store.Close()
}
