// Package queue provides Redis-backed background scheduling using Asynq
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

const (
	// Task types
	TypeSyncRun    = "sync:run"
	TypeReportSend = "report:send"

	// QueueDefault is the single queue; sync and report tasks must not
	// overlap so everything funnels through one worker
	QueueDefault = "default"
)

// ReportSendPayload is the payload for a report delivery task
type ReportSendPayload struct {
	Period     domain.ReportPeriod `json:"period"`
	EnqueuedAt time.Time           `json:"enqueued_at"`
}

// Config holds Redis queue configuration
type Config struct {
	RedisURL  string
	RedisAddr string
	Password  string
	DB        int
}

func (c *Config) connOpt() (asynq.RedisConnOpt, error) {
	if c.RedisURL != "" {
		opt, err := asynq.ParseRedisURI(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		return opt, nil
	}
	if c.RedisAddr != "" {
		return asynq.RedisClientOpt{
			Addr:         c.RedisAddr,
			Password:     c.Password,
			DB:           c.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}, nil
	}
	return nil, fmt.Errorf("redis URL or address is required")
}

// Queue enqueues sync and report tasks
type Queue struct {
	client   *asynq.Client
	redisOpt asynq.RedisConnOpt
}

// New creates a new Queue
func New(cfg *Config) (*Queue, error) {
	redisOpt, err := cfg.connOpt()
	if err != nil {
		return nil, err
	}

	return &Queue{
		client:   asynq.NewClient(redisOpt),
		redisOpt: redisOpt,
	}, nil
}

// EnqueueSync schedules an immediate reconciliation run. Unique over
// five minutes so button mashing does not pile runs up.
func (q *Queue) EnqueueSync(ctx context.Context) error {
	task := asynq.NewTask(TypeSyncRun, nil)

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue sync task: %w", err)
	}

	log.Printf("queue: enqueued sync run (task_id: %s)", info.ID)
	return nil
}

// EnqueueReportSend schedules a report delivery for the given period
func (q *Queue) EnqueueReportSend(ctx context.Context, period domain.ReportPeriod) error {
	data, err := json.Marshal(ReportSendPayload{
		Period:     period,
		EnqueuedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeReportSend, data)

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue report task: %w", err)
	}

	log.Printf("queue: enqueued %s report delivery (task_id: %s)", period, info.ID)
	return nil
}

// GetRedisOpt returns the Redis client options for creating a server
func (q *Queue) GetRedisOpt() asynq.RedisConnOpt {
	return q.redisOpt
}

// Close closes the queue client
func (q *Queue) Close() error {
	if q.client != nil {
		return q.client.Close()
	}
	return nil
}

// ParseReportSendPayload parses a report delivery payload from task data
func ParseReportSendPayload(data []byte) (*ReportSendPayload, error) {
	var payload ReportSendPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if !payload.Period.IsValid() {
		return nil, fmt.Errorf("unknown report period %q", payload.Period)
	}
	return &payload, nil
}
