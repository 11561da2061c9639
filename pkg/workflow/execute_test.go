package workflow

import (
	"errors"
	"testing"

	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_Execute_NoStartNode(t *testing.T) {
	wf := New("w1", "No Start", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("end", "End", models.NodeTypeEnd)))

	_, err := wf.Execute(nil, 0)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "no start node")
}

func TestWorkflow_Execute_StartToEnd(t *testing.T) {
	wf := New("w1", "Minimal", models.EnvironmentStaging, "")
	require.NoError(t, wf.AddNode(models.NewNode("start", "Start", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("end", "End", models.NodeTypeEnd)))
	_, err := wf.ConnectNodes("start", "end", nil, 0)
	require.NoError(t, err)

	result, err := wf.Execute(nil, 0)
	require.NoError(t, err)

	assert.Equal(t, true, result[models.ContextKeyCompleted])
	assert.Equal(t, 1, result[models.ContextKeyIterations])
	assert.Equal(t, []string{"start", "end"}, result[models.ContextKeyExecutionPath])
	assert.Equal(t, "staging", result[models.ContextKeyEnvironment])
	assert.Equal(t, "w1", result[models.ContextKeyWorkflowID])
}

func TestWorkflow_Execute_ActionsMutateContext(t *testing.T) {
	wf := New("w1", "Linear", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("start", "Start", models.NodeTypeStart).WithAction(func(ctx models.Context) (models.Context, error) {
		ctx["counter"] = 1

		return ctx, nil
	})))
	require.NoError(t, wf.AddNode(models.NewNode("bump", "Bump", models.NodeTypeProcess).WithAction(func(ctx models.Context) (models.Context, error) {
		ctx["counter"] = ctx["counter"].(int) + 1

		return ctx, nil
	})))
	require.NoError(t, wf.AddNode(models.NewNode("end", "End", models.NodeTypeEnd)))
	_, err := wf.ConnectNodes("start", "bump", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("bump", "end", nil, 0)
	require.NoError(t, err)

	result, err := wf.Execute(models.Context{"initial": true}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result["counter"])
	assert.Equal(t, true, result["initial"])
}

func buildDecisionWorkflow(t *testing.T) *Workflow {
	t.Helper()

	wf := New("decision", "Decision", models.EnvironmentDevelopment, "")
	for id, nodeType := range map[string]models.NodeType{
		"start":  models.NodeTypeStart,
		"decide": models.NodeTypeDecision,
		"high":   models.NodeTypeProcess,
		"low":    models.NodeTypeProcess,
		"end":    models.NodeTypeEnd,
	} {
		require.NoError(t, wf.AddNode(models.NewNode(id, id, nodeType)))
	}

	_, err := wf.ConnectNodes("start", "decide", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("decide", "high", models.GreaterThan("value", 50), 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("decide", "low", models.LessThan("value", 50), 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("high", "end", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("low", "end", nil, 0)
	require.NoError(t, err)

	return wf
}

func TestWorkflow_Execute_MutuallyExclusiveBranches(t *testing.T) {
	wf := buildDecisionWorkflow(t)

	result, err := wf.Execute(models.Context{"value": 75}, 0)
	require.NoError(t, err)

	path, ok := result[models.ContextKeyExecutionPath].([]string)
	require.True(t, ok)
	assert.Contains(t, path, "high")
	assert.NotContains(t, path, "low")
}

func TestWorkflow_Execute_FanOutRunsBothBranches(t *testing.T) {
	wf := New("fanout", "Fan Out", models.EnvironmentDevelopment, "")
	for id, nodeType := range map[string]models.NodeType{
		"start":  models.NodeTypeStart,
		"decide": models.NodeTypeDecision,
		"left":   models.NodeTypeProcess,
		"right":  models.NodeTypeProcess,
		"end":    models.NodeTypeEnd,
	} {
		require.NoError(t, wf.AddNode(models.NewNode(id, id, nodeType)))
	}

	_, err := wf.ConnectNodes("start", "decide", nil, 0)
	require.NoError(t, err)
	// Two non-exclusive conditions: both hold for value=75.
	_, err = wf.ConnectNodes("decide", "left", models.GreaterThan("value", 50), 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("decide", "right", models.GreaterThan("value", 10), 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("left", "end", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("right", "end", nil, 0)
	require.NoError(t, err)

	result, err := wf.Execute(models.Context{"value": 75}, 0)
	require.NoError(t, err)

	path, ok := result[models.ContextKeyExecutionPath].([]string)
	require.True(t, ok)
	assert.Contains(t, path, "left")
	assert.Contains(t, path, "right")
	// Both branches reach the end node, which runs once per appearance in
	// the frontier: the frontier is not deduplicated.
	assert.Equal(t, 2, countOccurrences(path, "end"))
}

func TestWorkflow_Execute_IterationLimitBoundary(t *testing.T) {
	wf := New("loop", "Loop", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("start", "Start", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("spin", "Spin", models.NodeTypeProcess)))
	_, err := wf.ConnectNodes("start", "spin", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("spin", "spin", nil, 0)
	require.NoError(t, err)

	const limit = 5

	_, err = wf.Execute(nil, limit)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationLimit)

	var limitErr *IterationLimitError

	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, limit, limitErr.MaxIterations)
}

func TestWorkflow_Execute_NodeActionErrorPropagates(t *testing.T) {
	boom := errors.New("storage unavailable")

	wf := New("failing", "Failing", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("start", "Start", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("explode", "Explode", models.NodeTypeProcess).WithAction(func(ctx models.Context) (models.Context, error) {
		return nil, boom
	})))
	require.NoError(t, wf.AddNode(models.NewNode("end", "End", models.NodeTypeEnd)))
	_, err := wf.ConnectNodes("start", "explode", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("explode", "end", nil, 0)
	require.NoError(t, err)

	_, err = wf.Execute(nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func countOccurrences(items []string, target string) int {
	count := 0

	for _, item := range items {
		if item == target {
			count++
		}
	}

	return count
}
