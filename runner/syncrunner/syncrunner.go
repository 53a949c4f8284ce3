package syncrunner

import (
	"context"
	"log"

	"github.com/fieldcrew/statsync/runner"
)

// SyncRunner performs one reconciliation run and exits
type SyncRunner struct {
	cfg      *runner.Config
	store    *runner.Store
	services *runner.Services
}

// New creates a new SyncRunner
func New(cfg *runner.Config) (runner.Runner, error) {
	store, err := runner.OpenStore(cfg.Dsn)
	if err != nil {
		return nil, err
	}

	return &SyncRunner{
		cfg:      cfg,
		store:    store,
		services: runner.BuildServices(cfg, store),
	}, nil
}

// Run executes the sync once
func (s *SyncRunner) Run(ctx context.Context) error {
	run, err := s.services.Sync.Run(ctx)
	if err != nil {
		return err
	}

	log.Printf("sync completed: run %s, %d records processed, %d unmapped status(es), %d unmatched surveyor(s)",
		run.ID, run.RecordsProcessed, len(run.UnmappedStatuses), len(run.UnmatchedActors))

	return nil
}

// Close cleans up resources
func (s *SyncRunner) Close(_ context.Context) error {
	return s.store.Close()
}
