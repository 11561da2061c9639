package eventbus_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkflow/pinkflow/pkg/channels/gochannel"
	"github.com/pinkflow/pinkflow/pkg/eventbus"
	"github.com/pinkflow/pinkflow/pkg/events"
	"github.com/pinkflow/pinkflow/pkg/models"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub, logger)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	received := make(chan events.WorkflowRegistered, 1)

	err := bus.Handle(events.WorkflowRegisteredEvent, func(_ context.Context, payload []byte) error {
		var event events.WorkflowRegistered
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}

		received <- event

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	event := events.WorkflowRegistered{
		BaseEvent: events.BaseEvent{
			ID:         bus.GenerateID(),
			Type:       events.WorkflowRegisteredEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: "wf-1",
		},
		Name:        "Test",
		Environment: models.EnvironmentSandbox,
		NodeCount:   2,
		EdgeCount:   1,
	}

	require.NoError(t, bus.Publish(ctx, "wf-1", event))

	select {
	case got := <-received:
		assert.Equal(t, "wf-1", got.WorkflowID)
		assert.Equal(t, 2, got.NodeCount)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_IgnoresUnhandledTypes(t *testing.T) {
	bus := newTestBus(t)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	handled := make(chan struct{}, 1)

	err := bus.Handle(events.ExecutionFailedEvent, func(_ context.Context, _ []byte) error {
		handled <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	event := events.WorkflowUnregistered{
		BaseEvent: events.BaseEvent{
			ID:         bus.GenerateID(),
			Type:       events.WorkflowUnregisteredEvent,
			WorkflowID: "wf-1",
		},
	}

	require.NoError(t, bus.Publish(ctx, "wf-1", event))

	select {
	case <-handled:
		t.Fatal("handler fired for a different event type")
	case <-time.After(100 * time.Millisecond):
	}
}
