package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// MetadataPublishedAt records when an event left the publisher.
const MetadataPublishedAt = "published_at"

// Publish sends a typed event. Delivery to consumers happens asynchronously.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc creates a typed publish function for a specific topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.SetContext(ctx)
		msg.Metadata.Set(MetadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))

		if err := publisher.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}

		return nil
	}
}

// Discard returns a Publish that drops every event.
func Discard[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// Publisher owns a message.Publisher so the injector can close it on shutdown.
type Publisher struct {
	message.Publisher
}

// NewPublisher wraps publisher.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{Publisher: publisher}
}

// Shutdown closes the underlying publisher.
func (p *Publisher) Shutdown() error {
	return p.Close()
}
