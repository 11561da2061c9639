// Package web provides the HTTP inspection and execution surface over the
// workflow manager.
package web

import "github.com/pinkflow/pinkflow/pkg/models"

// ExecuteWorkflowRequest is the request body for running a workflow. The
// initial context is data only; node actions are code and cannot be supplied
// over the wire. Environment selects another tier's policy for this run;
// MaxIterations overrides that policy's iteration bound.
type ExecuteWorkflowRequest struct {
	Context       models.Context     `json:"context"`
	Environment   models.Environment `json:"environment,omitempty"    validate:"omitempty,oneof=sandbox staging production development"`
	MaxIterations *int               `json:"max_iterations,omitempty" validate:"omitempty,min=1"`
}

// ExecuteWorkflowResponse wraps the final execution context.
type ExecuteWorkflowResponse struct {
	WorkflowID string         `json:"workflow_id"`
	Result     models.Context `json:"result"`
}
