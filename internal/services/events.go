package services

import (
	"context"

	"github.com/tweetline/tweetline/pkg/logger"
	"github.com/tweetline/tweetline/pkg/queue"
)

// publishEvent sends a domain event without affecting the request
// outcome; broker trouble is logged and swallowed.
func publishEvent(ctx context.Context, producer EventPublisher, log *logger.Logger, key string, eventType queue.EventType, data interface{}) {
	event, err := queue.NewEvent(eventType, data)
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("Failed to build event")
		return
	}
	if err := producer.Publish(ctx, key, event); err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("Failed to publish event")
	}
}
