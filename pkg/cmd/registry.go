// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"log/slog"

	"github.com/pinkflow/pinkflow/pkg/manager"
	"github.com/pinkflow/pinkflow/pkg/otelhelper"
	"github.com/pinkflow/pinkflow/pkg/registry"
)

// Config carries the shared service flags.
type Config struct {
	EventBusProvider string
	HistoryURL       string
	TracingEnabled   bool
	ServiceName      string
}

// NewManager builds a registry from the shared flags and wraps it in a
// manager with default environment policies.
func NewManager(ctx context.Context, logger *slog.Logger, config Config) (*manager.Manager, error) {
	opts := make([]registry.Option, 0, 3)

	sink, err := NewHistorySink(config.HistoryURL)
	if err != nil {
		return nil, err
	}

	opts = append(opts, registry.WithHistorySink(sink))

	if config.EventBusProvider != "none" {
		bus, err := NewEventBus(config.EventBusProvider, config.ServiceName, logger)
		if err != nil {
			return nil, err
		}

		opts = append(opts, registry.WithEventPublisher(bus))
	}

	if config.TracingEnabled {
		tracer, err := otelhelper.NewTracer(ctx, config.ServiceName)
		if err != nil {
			return nil, err
		}

		opts = append(opts, registry.WithTracer(tracer))
	}

	return manager.NewManager(logger, registry.NewRegistry(logger, opts...)), nil
}
