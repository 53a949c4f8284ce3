package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fieldcrew/statsync/internal/domain"
)

// SchedulerConfig holds the cron specs driving periodic work. Empty
// specs disable the corresponding entry.
type SchedulerConfig struct {
	Redis Config

	// SyncCron fires reconciliation runs, e.g. "*/30 * * * *"
	SyncCron string

	// ReportCron fires the daily report delivery, e.g. "0 7 * * *"
	ReportCron string

	// ReportPeriod is the period the scheduled delivery covers
	ReportPeriod domain.ReportPeriod

	// Location resolves the cron specs, defaults to UTC
	Location *time.Location
}

// Scheduler registers periodic sync and report tasks with Redis
type Scheduler struct {
	scheduler *asynq.Scheduler
}

// NewScheduler creates a new Scheduler
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	redisOpt, err := cfg.Redis.connOpt()
	if err != nil {
		return nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   &asynqLogger{},
	})

	if cfg.SyncCron != "" {
		task := asynq.NewTask(TypeSyncRun, nil)
		if _, err := scheduler.Register(cfg.SyncCron, task, asynq.Queue(QueueDefault)); err != nil {
			return nil, fmt.Errorf("failed to register sync schedule: %w", err)
		}
		log.Printf("scheduler: sync runs on %q", cfg.SyncCron)
	}

	if cfg.ReportCron != "" {
		period := cfg.ReportPeriod
		if period == "" {
			period = domain.PeriodYesterday
		}
		data, err := json.Marshal(ReportSendPayload{Period: period})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report payload: %w", err)
		}
		task := asynq.NewTask(TypeReportSend, data)
		if _, err := scheduler.Register(cfg.ReportCron, task, asynq.Queue(QueueDefault)); err != nil {
			return nil, fmt.Errorf("failed to register report schedule: %w", err)
		}
		log.Printf("scheduler: %s report delivery on %q", period, cfg.ReportCron)
	}

	return &Scheduler{scheduler: scheduler}, nil
}

// Run starts the scheduler and blocks until the context is canceled
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	<-ctx.Done()
	s.scheduler.Shutdown()
	return ctx.Err()
}
