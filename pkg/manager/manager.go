// Package manager layers environment policy on top of the registry: each
// deployment tier carries an execution configuration that is injected into
// every run started through the manager.
package manager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/pinkflow/pinkflow/pkg/registry"
	"github.com/pinkflow/pinkflow/pkg/workflow"
)

// DefaultEnvironmentConfigs returns the built-in per-tier policies.
// Production is the only tier without auto rollback: rolling back a live
// deployment is a human decision.
func DefaultEnvironmentConfigs() map[models.Environment]models.EnvironmentConfig {
	return map[models.Environment]models.EnvironmentConfig{
		models.EnvironmentSandbox:     {MaxIterations: 100, TimeoutSeconds: 60, AutoRollback: true},
		models.EnvironmentDevelopment: {MaxIterations: 50, TimeoutSeconds: 30, AutoRollback: true},
		models.EnvironmentStaging:     {MaxIterations: 500, TimeoutSeconds: 300, AutoRollback: true},
		models.EnvironmentProduction:  {MaxIterations: 1000, TimeoutSeconds: 600, AutoRollback: false},
	}
}

// Statistics summarizes the registry's contents and execution history in a
// single pass over retained records.
type Statistics struct {
	TotalWorkflows       int                        `json:"total_workflows"`
	WorkflowsByEnv       map[models.Environment]int `json:"workflows_by_environment"`
	TotalExecutions      int                        `json:"total_executions"`
	SuccessfulExecutions int                        `json:"successful_executions"`
	FailedExecutions     int                        `json:"failed_executions"`
	SuccessRate          float64                    `json:"success_rate"`
}

// Manager owns a registry plus per-environment execution policy.
type Manager struct {
	logger   *slog.Logger
	registry *registry.Registry

	mutex   sync.RWMutex
	configs map[models.Environment]models.EnvironmentConfig
}

// NewManager creates a manager around the given registry with the default
// environment policies.
func NewManager(logger *slog.Logger, reg *registry.Registry) *Manager {
	return &Manager{
		logger:   logger.With("module", "manager"),
		registry: reg,
		configs:  DefaultEnvironmentConfigs(),
	}
}

// Registry exposes the underlying registry for callers needing direct
// access, such as the HTTP surface and the scheduler.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// RegisterWorkflow registers a workflow through the manager.
func (m *Manager) RegisterWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	return m.registry.Register(ctx, wf)
}

// UnregisterWorkflow removes a workflow.
func (m *Manager) UnregisterWorkflow(ctx context.Context, workflowID string) error {
	return m.registry.Unregister(ctx, workflowID)
}

// GetWorkflow returns a registered workflow.
func (m *Manager) GetWorkflow(workflowID string) (*workflow.Workflow, error) {
	return m.registry.Get(workflowID)
}

// ListWorkflows lists registered workflows, optionally filtered by
// environment.
func (m *Manager) ListWorkflows(environment models.Environment) []*workflow.Workflow {
	return m.registry.List(environment)
}

// ExecuteWorkflow runs a workflow with environment policy applied: the
// effective environment is the override when given, else the workflow's own;
// its policy is written into the initial context under environment_config
// and its MaxIterations bounds the run.
func (m *Manager) ExecuteWorkflow(ctx context.Context, workflowID string, initial models.Context, environmentOverride models.Environment) (models.Context, error) {
	wf, err := m.registry.Get(workflowID)
	if err != nil {
		return nil, err
	}

	environment := wf.Environment
	if environmentOverride != "" {
		if !environmentOverride.Valid() {
			_, err := models.ParseEnvironment(string(environmentOverride))

			return nil, err
		}

		environment = environmentOverride
	}

	return m.executeWithConfig(ctx, workflowID, initial, environment, m.GetEnvironmentConfig(environment))
}

// ExecuteWorkflowWithConfig runs a workflow under an explicit policy,
// bypassing the stored per-tier table for this run only.
func (m *Manager) ExecuteWorkflowWithConfig(ctx context.Context, workflowID string, initial models.Context, config models.EnvironmentConfig) (models.Context, error) {
	wf, err := m.registry.Get(workflowID)
	if err != nil {
		return nil, err
	}

	return m.executeWithConfig(ctx, workflowID, initial, wf.Environment, config)
}

func (m *Manager) executeWithConfig(ctx context.Context, workflowID string, initial models.Context, environment models.Environment, config models.EnvironmentConfig) (models.Context, error) {
	if initial == nil {
		initial = models.Context{}
	}

	initial[models.ContextKeyEnvironmentConfig] = map[string]any{
		"max_iterations":  config.MaxIterations,
		"timeout_seconds": config.TimeoutSeconds,
		"auto_rollback":   config.AutoRollback,
	}

	m.logger.DebugContext(ctx, "Executing workflow with environment policy",
		"workflow_id", workflowID,
		"environment", environment,
		"max_iterations", config.MaxIterations)

	return m.registry.Execute(ctx, workflowID, initial, config.MaxIterations)
}

// ConfigureEnvironment replaces the stored policy for a tier.
func (m *Manager) ConfigureEnvironment(environment models.Environment, config models.EnvironmentConfig) error {
	if !environment.Valid() {
		_, err := models.ParseEnvironment(string(environment))

		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.configs[environment] = config

	return nil
}

// GetEnvironmentConfig returns the stored policy for a tier, falling back to
// the sandbox policy for unknown tiers.
func (m *Manager) GetEnvironmentConfig(environment models.Environment) models.EnvironmentConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if config, ok := m.configs[environment]; ok {
		return config
	}

	return m.configs[models.EnvironmentSandbox]
}

// GetExecutionHistory returns retained execution records, optionally
// filtered by workflow ID.
func (m *Manager) GetExecutionHistory(ctx context.Context, workflowID string, limit int) ([]models.ExecutionRecord, error) {
	return m.registry.ExecutionHistory(ctx, workflowID, limit)
}

// GetStatistics computes aggregate statistics over registered workflows and
// all retained execution records.
func (m *Manager) GetStatistics(ctx context.Context) (Statistics, error) {
	stats := Statistics{
		WorkflowsByEnv: make(map[models.Environment]int),
	}

	for _, wf := range m.registry.List("") {
		stats.TotalWorkflows++
		stats.WorkflowsByEnv[wf.Environment]++
	}

	records, err := m.registry.ExecutionHistory(ctx, "", -1)
	if err != nil {
		return Statistics{}, err
	}

	for _, record := range records {
		stats.TotalExecutions++

		switch record.Status {
		case models.ExecutionStatusSuccess:
			stats.SuccessfulExecutions++
		case models.ExecutionStatusFailed:
			stats.FailedExecutions++
		}
	}

	if stats.TotalExecutions > 0 {
		stats.SuccessRate = float64(stats.SuccessfulExecutions) / float64(stats.TotalExecutions)
	}

	return stats, nil
}

// ExportToFile writes the registry's export document to path.
func (m *Manager) ExportToFile(path string) error {
	return m.registry.ExportToFile(path)
}

// ImportFromFile imports workflows from an export document at path.
func (m *Manager) ImportFromFile(ctx context.Context, path string) ([]string, error) {
	return m.registry.ImportFromFile(ctx, path)
}
