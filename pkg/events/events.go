// Package events defines event types and structures for workflow lifecycle
// notifications.
package events

import (
	"errors"
	"time"

	"github.com/pinkflow/pinkflow/pkg/models"
)

type EventType string

// Topic is the single topic carrying workflow lifecycle events.
const Topic = "pinkflow.events"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowRegisteredEvent   EventType = "workflow.registered"
	WorkflowUnregisteredEvent EventType = "workflow.unregistered"
	ExecutionStartedEvent     EventType = "workflow.execution.started"
	ExecutionCompletedEvent   EventType = "workflow.execution.completed"
	ExecutionFailedEvent      EventType = "workflow.execution.failed"
)

var ErrMissingWorkflowID = errors.New("event workflow id is required")

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (b BaseEvent) Validate() error {
	if b.WorkflowID == "" {
		return ErrMissingWorkflowID
	}

	return nil
}

type WorkflowRegistered struct {
	BaseEvent

	Name        string             `json:"name"`
	Environment models.Environment `json:"environment"`
	NodeCount   int                `json:"node_count"`
	EdgeCount   int                `json:"edge_count"`
}

func (w WorkflowRegistered) GetType() EventType {
	return WorkflowRegisteredEvent
}

type WorkflowUnregistered struct {
	BaseEvent
}

func (w WorkflowUnregistered) GetType() EventType {
	return WorkflowUnregisteredEvent
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string             `json:"execution_id"`
	Environment models.Environment `json:"environment"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string             `json:"execution_id"`
	Environment models.Environment `json:"environment"`
	Iterations  int                `json:"iterations"`
	Duration    time.Duration      `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string             `json:"execution_id"`
	Environment models.Environment `json:"environment"`
	Error       string             `json:"error"`
	Duration    time.Duration      `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}
