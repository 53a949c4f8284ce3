// Package goposthog is a PostHog-backed telemetry implementation
package goposthog

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/fieldcrew/statsync/tlmt"
)

type service struct {
	client     posthog.Client
	distinctID string
	once       sync.Once
}

// New creates a PostHog telemetry client. The distinct ID is a random
// per-host identifier, not tied to any user.
func New(apiKey, endpoint string) (tlmt.Telemetry, error) {
	if apiKey == "" {
		return nil, errors.New("posthog api key is required")
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	distinctID := hostname
	if distinctID == "" {
		distinctID = uuid.NewString()
	}

	return &service{
		client:     client,
		distinctID: distinctID,
	}, nil
}

func (s *service) Send(_ context.Context, event tlmt.Event) error {
	props := posthog.NewProperties()
	for k, v := range event.Props {
		props.Set(k, v)
	}

	return s.client.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      event.Name,
		Properties: props,
	})
}

func (s *service) Close() error {
	var err error
	s.once.Do(func() {
		err = s.client.Close()
	})

	return err
}
