package models

import "time"

// ExecutionStatus is the terminal outcome of one workflow run.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// Context keys written by the engine and the management layer.
const (
	ContextKeyEnvironment       = "environment"
	ContextKeyWorkflowID        = "workflow_id"
	ContextKeyExecutionPath     = "execution_path"
	ContextKeyCompleted         = "completed"
	ContextKeyIterations        = "iterations"
	ContextKeyExecutionStatus   = "execution_status"
	ContextKeyError             = "error"
	ContextKeyEnvironmentConfig = "environment_config"
)

// ExecutionRecord is one append-only entry in the registry's history ledger.
// Records are created once per execute call and never mutated.
type ExecutionRecord struct {
	ExecutionID string          `json:"execution_id"`
	WorkflowID  string          `json:"workflow_id"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Duration    time.Duration   `json:"duration"`
	Status      ExecutionStatus `json:"status"`
	Environment Environment     `json:"environment"`
	Error       string          `json:"error,omitempty"`
}

// EnvironmentConfig is the per-tier execution policy overlaid onto a run by
// the manager. TimeoutSeconds is carried as data only; the engine bounds
// runs by iteration count, not wall clock.
type EnvironmentConfig struct {
	MaxIterations  int  `json:"max_iterations"  validate:"min=1"`
	TimeoutSeconds int  `json:"timeout_seconds" validate:"min=0"`
	AutoRollback   bool `json:"auto_rollback"`
}
