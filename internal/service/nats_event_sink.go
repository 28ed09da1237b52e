package service

import (
	"context"

	"resume-turns-be/internal/dto"
	"resume-turns-be/pkg/events"
)

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type natsEventSink struct {
	publisher EventPublisher
}

// NewNatsEventSink forwards version events to the cross-service bus as
// events.<TYPE> subjects.
func NewNatsEventSink(publisher EventPublisher) VersionEventSink {
	return &natsEventSink{publisher: publisher}
}

func (s *natsEventSink) HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error {
	return s.publisher.Publish(ctx, events.BaseEvent{
		Type: event.Type,
		Data: map[string]interface{}{
			"version_id": event.VersionId.String(),
			"name":       event.Name,
			"state_id":   event.StateId,
			"step":       event.Step,
		},
		OccurredAt: event.At,
	})
}
