// Package registry provides named storage of validated workflows and the
// append-only execution history ledger.
package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateWorkflow indicates a workflow with the same ID is already
	// registered.
	ErrDuplicateWorkflow = errors.New("workflow already registered")

	// ErrWorkflowNotFound indicates no workflow is registered under the
	// given ID.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// RegistrationError wraps registration failures with the workflow ID.
type RegistrationError struct {
	WorkflowID string
	Err        error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register workflow %s: %v", e.WorkflowID, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// IsDuplicateWorkflow checks whether an error indicates a duplicate
// registration.
func IsDuplicateWorkflow(err error) bool {
	return errors.Is(err, ErrDuplicateWorkflow)
}

// IsWorkflowNotFound checks whether an error indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}
