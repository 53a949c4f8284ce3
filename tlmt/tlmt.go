// Package tlmt defines the anonymous usage telemetry abstraction
package tlmt

import "context"

// Event is a single telemetry event
type Event struct {
	Name  string
	Props map[string]any
}

// NewEvent creates a new event
func NewEvent(name string, props map[string]any) Event {
	return Event{
		Name:  name,
		Props: props,
	}
}

// Telemetry sends events to a telemetry backend
type Telemetry interface {
	Send(ctx context.Context, event Event) error
	Close() error
}
