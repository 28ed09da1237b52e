package service

import (
	"context"
	"encoding/json"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// VersionEventSink receives every version event published in this process.
type VersionEventSink interface {
	HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	sinks      []VersionEventSink
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	logger logger.ILogger,
	sinks ...VersionEventSink,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		sinks:      sinks,
		logger:     logger,
	}
}

// Consume subscribes to the version topic and fans messages out to the sinks
// until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event dto.VersionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal version event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // a malformed message will never succeed
		return
	}

	// sinks are best effort; one failing does not hold back the others
	for _, sink := range cs.sinks {
		if err := sink.HandleVersionEvent(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Version event sink failed", map[string]interface{}{
				"version_id": event.VersionId.String(),
				"type":       event.Type,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}
