package serverrunner

import (
	"context"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fieldcrew/statsync/internal/api"
	"github.com/fieldcrew/statsync/internal/api/handlers"
	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/queue"
	"github.com/fieldcrew/statsync/internal/watchdog"
	"github.com/fieldcrew/statsync/runner"
)

// ServerRunner serves the HTTP API plus, when Redis is configured, the
// background worker and the cron scheduler
type ServerRunner struct {
	cfg       *runner.Config
	store     *runner.Store
	srv       *http.Server
	queue     *queue.Queue
	worker    *queue.Worker
	scheduler *queue.Scheduler
	watchdog  *watchdog.Monitor
}

// scheduledReports adapts the report service to the queue worker by
// binding the configured recipient lists
type scheduledReports struct {
	services *runner.Services
	cfg      *runner.Config
}

func (s *scheduledReports) SendScheduled(ctx context.Context, period domain.ReportPeriod) error {
	if _, err := s.services.Sync.Run(ctx); err != nil {
		return err
	}

	_, err := s.services.Reports.Send(ctx, period, s.cfg.EmailRecipients, s.cfg.SMSRecipients)
	return err
}

// New creates a new ServerRunner
func New(cfg *runner.Config) (runner.Runner, error) {
	store, err := runner.OpenStore(cfg.Dsn)
	if err != nil {
		return nil, err
	}

	services := runner.BuildServices(cfg, store)

	redisConfigured := cfg.RedisURL != "" || cfg.RedisAddr != ""

	var taskQueue *queue.Queue
	if redisConfigured {
		taskQueue, err = queue.New(&queue.Config{
			RedisURL:  cfg.RedisURL,
			RedisAddr: cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
		})
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	// Handlers take the enqueuer interfaces so a nil queue stays a nil
	// interface value rather than a typed nil
	var syncEnqueuer handlers.SyncEnqueuer
	var reportEnqueuer handlers.ReportEnqueuer
	if taskQueue != nil {
		syncEnqueuer = taskQueue
		reportEnqueuer = taskQueue
	}

	syncHandler := handlers.NewSyncHandler(services.Sync, store.SyncRuns, syncEnqueuer)
	reportHandler := handlers.NewReportHandler(services.Reports, services.Sync, handlers.Recipients{
		Email: cfg.EmailRecipients,
		SMS:   cfg.SMSRecipients,
	}, reportEnqueuer)
	mappingHandler := handlers.NewMappingHandler(store.Mappings)
	statsHandler := handlers.NewStatsHandler(services.Stats, services.Cache)

	router := api.NewRouter(syncHandler, reportHandler, mappingHandler, statsHandler)
	handler := router.Setup(cfg.APIKey)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s := &ServerRunner{
		cfg:      cfg,
		store:    store,
		srv:      srv,
		queue:    taskQueue,
		watchdog: watchdog.NewMonitor(store.SyncRuns, 0, 0),
	}

	if redisConfigured {
		reports := &scheduledReports{services: services, cfg: cfg}

		worker, err := queue.NewWorker(&queue.WorkerConfig{
			RedisURL:  cfg.RedisURL,
			RedisAddr: cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
		}, services.Sync, reports)
		if err != nil {
			store.Close()
			return nil, err
		}
		s.worker = worker

		if cfg.SyncCron != "" || cfg.ReportCron != "" {
			scheduler, err := queue.NewScheduler(&queue.SchedulerConfig{
				Redis: queue.Config{
					RedisURL:  cfg.RedisURL,
					RedisAddr: cfg.RedisAddr,
					Password:  cfg.RedisPass,
					DB:        cfg.RedisDB,
				},
				SyncCron:     cfg.SyncCron,
				ReportCron:   cfg.ReportCron,
				ReportPeriod: domain.ReportPeriod(cfg.Period),
			})
			if err != nil {
				store.Close()
				return nil, err
			}
			s.scheduler = scheduler
		}
	}

	return s, nil
}

// Run starts the server and blocks until the context is canceled
func (s *ServerRunner) Run(ctx context.Context) error {
	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return s.startServer(ctx)
	})

	egroup.Go(func() error {
		return s.watchdog.Run(ctx)
	})

	if s.worker != nil {
		egroup.Go(func() error {
			return s.worker.Run(ctx)
		})
	}

	if s.scheduler != nil {
		egroup.Go(func() error {
			return s.scheduler.Run(ctx)
		})
	}

	return egroup.Wait()
}

// Close cleans up resources
func (s *ServerRunner) Close(_ context.Context) error {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			log.Printf("error closing queue client: %v", err)
		}
	}
	return s.store.Close()
}

func (s *ServerRunner) startServer(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down server: %v", err)
		}
	}()

	log.Printf("API server starting on http://localhost%s", s.cfg.Addr)
	if s.store.Postgres {
		log.Printf("using PostgreSQL database")
	} else {
		log.Printf("using SQLite database")
	}
	if s.worker != nil {
		log.Printf("background worker enabled")
	}

	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
