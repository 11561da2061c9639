package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pinkflow/pinkflow/pkg/events"
)

// watermillEventBus implements EventBus over any Watermill publisher and
// subscriber pair, so the same bus runs in-process over go channels in
// development and tests, and over Kafka in deployments.
type watermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger

	mutex    sync.RWMutex
	handlers map[events.EventType][]EventHandler
}

// NewWatermillEventBus wraps a Watermill publisher/subscriber pair as an
// EventBus publishing to the pinkflow events topic.
func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) EventBus {
	return &watermillEventBus{
		publisher:  pub,
		subscriber: sub,
		logger:     logger.With("module", "eventbus"),
		handlers:   make(map[events.EventType][]EventHandler),
	}
}

func (b *watermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to marshal event", "error", err, "event_type", event.GetType())
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(events.EventKeyMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	b.logger.DebugContext(ctx, "Publishing event",
		"event_type", event.GetType(),
		"key", key,
		"topic", events.Topic)

	return b.publisher.Publish(events.Topic, msg)
}

func (b *watermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	return nil
}

func (b *watermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := b.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to subscribe", "error", err, "topic", events.Topic)
		return err
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			b.mutex.RLock()
			handlers := b.handlers[eventType]
			b.mutex.RUnlock()

			success := true

			for _, handler := range handlers {
				if err := handler(ctx, msg.Payload); err != nil {
					b.logger.Error("Event handler failed", "error", err, "event_type", eventType)

					success = false
				}
			}

			if success {
				msg.Ack()
			} else {
				msg.Nack()
			}
		}
	}()

	return nil
}

func (b *watermillEventBus) Close() error {
	if err := b.publisher.Close(); err != nil {
		return err
	}

	return b.subscriber.Close()
}

func (b *watermillEventBus) GenerateID() string {
	return watermill.NewUUID()
}
