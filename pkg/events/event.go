package events

import (
	"fmt"
	"time"
)

// Event is anything published on the cross-service bus.
type Event interface {
	// EventType is the upper-case code of the event, e.g. "VERSION_SAVED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event is published on.
func Subject(e Event) string {
	return fmt.Sprintf("events.%s", e.EventType())
}
