package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pinkflow/pinkflow/pkg/eventbus"
	"github.com/pinkflow/pinkflow/pkg/events"
	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/pinkflow/pinkflow/pkg/otelhelper"
	"github.com/pinkflow/pinkflow/pkg/workflow"
)

// Registry stores validated workflows by ID and records every execution in
// its history sink. All methods are safe for concurrent use; executions of
// distinct workflows proceed in parallel, guarded only for map access.
type Registry struct {
	logger    *slog.Logger
	validator *validator.Validate
	publisher eventbus.EventPublisher
	history   HistorySink
	tracer    trace.Tracer

	mutex     sync.RWMutex
	workflows map[string]*workflow.Workflow
}

// Option customizes a Registry.
type Option func(*Registry)

// WithEventPublisher makes the registry emit lifecycle events. Publish
// failures are logged, never surfaced to callers.
func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}

// WithHistorySink replaces the default in-memory history sink.
func WithHistorySink(sink HistorySink) Option {
	return func(r *Registry) {
		r.history = sink
	}
}

// WithTracer enables a span around each execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// NewRegistry creates an empty registry with an in-memory history sink.
func NewRegistry(logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		logger:    logger.With("module", "registry"),
		validator: validator.New(),
		history:   NewMemoryHistory(0),
		workflows: make(map[string]*workflow.Workflow),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a workflow. Registration fails on a duplicate ID, on field
// validation errors, or when the graph itself is structurally invalid. A
// rejected workflow leaves the registry unchanged.
func (r *Registry) Register(ctx context.Context, wf *workflow.Workflow) error {
	if err := r.validator.Struct(wf); err != nil {
		return &RegistrationError{WorkflowID: wf.ID, Err: err}
	}

	if problems := wf.Validate(); len(problems) > 0 {
		return &RegistrationError{
			WorkflowID: wf.ID,
			Err:        &workflow.ValidationError{WorkflowID: wf.ID, Problems: problems},
		}
	}

	r.mutex.Lock()
	if _, exists := r.workflows[wf.ID]; exists {
		r.mutex.Unlock()

		return &RegistrationError{WorkflowID: wf.ID, Err: ErrDuplicateWorkflow}
	}

	r.workflows[wf.ID] = wf
	r.mutex.Unlock()

	r.logger.InfoContext(ctx, "Workflow registered",
		"workflow_id", wf.ID,
		"name", wf.Name,
		"environment", wf.Environment,
		"nodes", len(wf.Nodes),
		"edges", len(wf.Edges))

	r.publish(ctx, wf.ID, events.WorkflowRegistered{
		BaseEvent:   r.baseEvent(events.WorkflowRegisteredEvent, wf.ID),
		Name:        wf.Name,
		Environment: wf.Environment,
		NodeCount:   len(wf.Nodes),
		EdgeCount:   len(wf.Edges),
	})

	return nil
}

// Unregister removes a workflow. Its execution history is retained.
func (r *Registry) Unregister(ctx context.Context, workflowID string) error {
	r.mutex.Lock()
	if _, exists := r.workflows[workflowID]; !exists {
		r.mutex.Unlock()

		return &RegistrationError{WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	delete(r.workflows, workflowID)
	r.mutex.Unlock()

	r.logger.InfoContext(ctx, "Workflow unregistered", "workflow_id", workflowID)

	r.publish(ctx, workflowID, events.WorkflowUnregistered{
		BaseEvent: r.baseEvent(events.WorkflowUnregisteredEvent, workflowID),
	})

	return nil
}

// Get returns the registered workflow or ErrWorkflowNotFound.
func (r *Registry) Get(workflowID string) (*workflow.Workflow, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	wf, exists := r.workflows[workflowID]
	if !exists {
		return nil, &RegistrationError{WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	return wf, nil
}

// List returns registered workflows, optionally filtered by environment.
// An empty environment matches everything.
func (r *Registry) List(environment models.Environment) []*workflow.Workflow {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	matched := make([]*workflow.Workflow, 0, len(r.workflows))

	for _, wf := range r.workflows {
		if environment == "" || wf.Environment == environment {
			matched = append(matched, wf)
		}
	}

	return matched
}

// Count returns the number of registered workflows.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.workflows)
}

// Clear removes every registered workflow. History is retained.
func (r *Registry) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.workflows = make(map[string]*workflow.Workflow)
}

// Execute runs a registered workflow against the initial context and records
// exactly one history entry regardless of outcome.
//
// Engine failures do not propagate as errors: the run is converted into a
// failed result context carrying execution_status, error, and workflow_id,
// so callers and the history ledger see a uniform shape for every run. The
// only error return is an unknown workflow ID, where no run happened and no
// record is written.
func (r *Registry) Execute(ctx context.Context, workflowID string, initial models.Context, maxIterations int) (models.Context, error) {
	wf, err := r.Get(workflowID)
	if err != nil {
		return nil, err
	}

	executionID := "exec-" + uuid.New().String()[:8]
	startedAt := time.Now().UTC()

	if r.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, r.tracer, "registry.execute",
			attribute.String(otelhelper.WorkflowIDKey, workflowID),
			attribute.String(otelhelper.ExecutionIDKey, executionID),
			attribute.String(otelhelper.EnvironmentKey, string(wf.Environment)),
		)
		defer span.End()
	}

	r.logger.InfoContext(ctx, "Executing workflow",
		"workflow_id", workflowID,
		"execution_id", executionID,
		"environment", wf.Environment)

	r.publish(ctx, workflowID, events.ExecutionStarted{
		BaseEvent:   r.baseEvent(events.ExecutionStartedEvent, workflowID),
		ExecutionID: executionID,
		Environment: wf.Environment,
	})

	result, runErr := wf.Execute(initial, maxIterations)
	completedAt := time.Now().UTC()
	duration := completedAt.Sub(startedAt)

	record := models.ExecutionRecord{
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    duration,
		Environment: wf.Environment,
	}

	if runErr != nil {
		record.Status = models.ExecutionStatusFailed
		record.Error = runErr.Error()

		result = models.Context{
			models.ContextKeyExecutionStatus: string(models.ExecutionStatusFailed),
			models.ContextKeyError:           runErr.Error(),
			models.ContextKeyWorkflowID:      workflowID,
		}

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			otelhelper.SetError(span, runErr,
				attribute.String(otelhelper.WorkflowIDKey, workflowID),
				attribute.String(otelhelper.ExecutionIDKey, executionID))
		}

		r.logger.ErrorContext(ctx, "Workflow execution failed",
			"workflow_id", workflowID,
			"execution_id", executionID,
			"error", runErr,
			"duration", duration)

		r.publish(ctx, workflowID, events.ExecutionFailed{
			BaseEvent:   r.baseEvent(events.ExecutionFailedEvent, workflowID),
			ExecutionID: executionID,
			Environment: wf.Environment,
			Error:       runErr.Error(),
			Duration:    duration,
		})
	} else {
		record.Status = models.ExecutionStatusSuccess
		result[models.ContextKeyExecutionStatus] = string(models.ExecutionStatusSuccess)

		iterations, _ := result[models.ContextKeyIterations].(int)

		r.logger.InfoContext(ctx, "Workflow execution completed",
			"workflow_id", workflowID,
			"execution_id", executionID,
			"iterations", iterations,
			"duration", duration)

		r.publish(ctx, workflowID, events.ExecutionCompleted{
			BaseEvent:   r.baseEvent(events.ExecutionCompletedEvent, workflowID),
			ExecutionID: executionID,
			Environment: wf.Environment,
			Iterations:  iterations,
			Duration:    duration,
		})
	}

	if err := r.history.Append(ctx, record); err != nil {
		r.logger.ErrorContext(ctx, "Failed to record execution history",
			"workflow_id", workflowID,
			"execution_id", executionID,
			"error", err)
	}

	return result, nil
}

// ExecutionHistory returns retained records in chronological order. An empty
// workflowID matches every workflow. A limit of zero applies
// DefaultHistoryLimit; a negative limit returns everything retained.
func (r *Registry) ExecutionHistory(ctx context.Context, workflowID string, limit int) ([]models.ExecutionRecord, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	return r.history.Records(ctx, workflowID, limit)
}

func (r *Registry) baseEvent(eventType events.EventType, workflowID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

func (r *Registry) publish(ctx context.Context, key string, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, key, event); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish event",
			"event_type", event.GetType(),
			"error", err)
	}
}
