package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/fieldcrew/statsync/internal/domain"
)

// SyncRunner starts a reconciliation run
type SyncRunner interface {
	Run(ctx context.Context) (*domain.SyncRun, error)
}

// ReportSender delivers a period report to the configured recipients
type ReportSender interface {
	SendScheduled(ctx context.Context, period domain.ReportPeriod) error
}

// Worker processes sync and report tasks from the Redis queue
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sync    SyncRunner
	reports ReportSender
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	RedisURL  string
	RedisAddr string
	Password  string
	DB        int
}

// NewWorker creates a new queue worker. Concurrency is fixed at one so
// a sync run never races a report delivery reading the same rows.
func NewWorker(cfg *WorkerConfig, sync SyncRunner, reports ReportSender) (*Worker, error) {
	queueCfg := Config{
		RedisURL:  cfg.RedisURL,
		RedisAddr: cfg.RedisAddr,
		Password:  cfg.Password,
		DB:        cfg.DB,
	}
	redisOpt, err := queueCfg.connOpt()
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			Queues:      map[string]int{QueueDefault: 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("queue worker error: task=%s, error=%v", task.Type(), err)
			}),
			Logger: &asynqLogger{},
		},
	)

	mux := asynq.NewServeMux()

	w := &Worker{
		server:  server,
		mux:     mux,
		sync:    sync,
		reports: reports,
	}

	mux.HandleFunc(TypeSyncRun, w.handleSyncRun)
	mux.HandleFunc(TypeReportSend, w.handleReportSend)

	return w, nil
}

// handleSyncRun processes a sync task
func (w *Worker) handleSyncRun(ctx context.Context, _ *asynq.Task) error {
	log.Printf("queue worker: starting sync run")

	run, err := w.sync.Run(ctx)
	if err != nil {
		log.Printf("queue worker: sync run failed: %v", err)
		return err
	}

	log.Printf("queue worker: sync run %s completed, %d records", run.ID, run.RecordsProcessed)
	return nil
}

// handleReportSend processes a report delivery task
func (w *Worker) handleReportSend(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReportSendPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Printf("queue worker: delivering %s report", payload.Period)

	if err := w.reports.SendScheduled(ctx, payload.Period); err != nil {
		log.Printf("queue worker: %s report delivery failed: %v", payload.Period, err)
		return err
	}

	return nil
}

// Run starts the worker and blocks until the context is canceled
func (w *Worker) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- w.server.Run(w.mux)
	}()

	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	if w.server != nil {
		w.server.Shutdown()
	}
}

// asynqLogger adapts asynq logging to standard log
type asynqLogger struct{}

func (l *asynqLogger) Debug(args ...interface{}) {
	// Suppress debug logs
}

func (l *asynqLogger) Info(args ...interface{}) {
	log.Println(args...)
}

func (l *asynqLogger) Warn(args ...interface{}) {
	log.Println("[WARN]", fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	log.Println("[ERROR]", fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	log.Fatalln("[FATAL]", fmt.Sprint(args...))
}
