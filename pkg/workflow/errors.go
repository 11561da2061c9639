// Package workflow provides standardized error types for graph construction
// and execution.
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Standard workflow error types. Structural errors are raised immediately at
// mutation time and indicate caller programming errors; they are never
// deferred or retried.
var (
	// ErrDuplicateNode indicates a node with the same ID already exists in
	// the workflow.
	ErrDuplicateNode = errors.New("node already exists")

	// ErrUnknownNode indicates an edge endpoint references a node that was
	// never added to the workflow.
	ErrUnknownNode = errors.New("node does not exist")

	// ErrNoStartNode indicates the workflow cannot execute because it has
	// no start node.
	ErrNoStartNode = errors.New("workflow has no start node")

	// ErrIterationLimit indicates execution was aborted because the outer
	// traversal loop exhausted its iteration budget.
	ErrIterationLimit = errors.New("maximum iterations exceeded")
)

// NodeError wraps node-level structural errors with workflow context.
type NodeError struct {
	Op         string // Operation being performed (e.g. "AddNode", "AddEdge")
	WorkflowID string
	NodeID     string
	Err        error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s failed for node %s in workflow %s: %v", e.Op, e.NodeID, e.WorkflowID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// ValidationError aggregates every structural problem discovered in one
// validation pass, so a caller can fix a workflow definition in one go
// instead of iterating failure by failure.
type ValidationError struct {
	WorkflowID string
	Problems   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow %s validation failed: %s", e.WorkflowID, strings.Join(e.Problems, "; "))
}

// IterationLimitError is the execution-fatal error raised when the traversal
// loop runs out of iterations before the frontier drains.
type IterationLimitError struct {
	WorkflowID    string
	MaxIterations int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("workflow %s exceeded maximum iterations (%d)", e.WorkflowID, e.MaxIterations)
}

func (e *IterationLimitError) Is(target error) bool {
	return target == ErrIterationLimit
}

// IsValidationError checks whether an error is a structural validation error.
func IsValidationError(err error) bool {
	var target *ValidationError

	return errors.As(err, &target)
}

// IsIterationLimit checks whether an error indicates an exhausted iteration
// budget.
func IsIterationLimit(err error) bool {
	return errors.Is(err, ErrIterationLimit)
}
