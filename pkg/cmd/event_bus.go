package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/pinkflow/pinkflow/pkg/channels/gochannel"
	"github.com/pinkflow/pinkflow/pkg/channels/kafka"
	"github.com/pinkflow/pinkflow/pkg/eventbus"
)

// NewEventBus creates an event bus for the given provider. "kafka" requires
// KAFKA_BROKERS; "memory" runs in-process and is the development default.
func NewEventBus(provider, serviceName string, logger *slog.Logger) (eventbus.EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, serviceName)
		if err != nil {
			return nil, fmt.Errorf("cannot create kafka channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	case "memory", "":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("cannot create in-memory channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
