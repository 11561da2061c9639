package workflow

import (
	"testing"

	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_ValidWorkflow(t *testing.T) {
	wf, err := NewBuilder("build-1", "Build Test", models.EnvironmentSandbox).
		WithDescription("builder coverage").
		WithMetadata("team", "platform").
		AddStartNode("start", "Start", nil).
		AddProcessNode("work", "Work", nil, map[string]any{"retries": 3}).
		AddEndNode("end", "End", nil).
		Connect("start", "work", nil, 0).
		Connect("work", "end", nil, 0).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "builder coverage", wf.Description)
	assert.Equal(t, "platform", wf.Metadata["team"])
	assert.Equal(t, "start", wf.StartNode)
	assert.Equal(t, map[string]any{"retries": 3}, wf.Nodes["work"].Config)
}

func TestBuilder_Build_AggregatesAllProblems(t *testing.T) {
	// No start node, no end node, plus an orphan: every problem must be
	// reported in one error, not just the first.
	_, err := NewBuilder("build-2", "Broken", models.EnvironmentSandbox).
		AddProcessNode("work", "Work", nil, nil).
		AddProcessNode("orphan", "Orphan", nil, nil).
		Build()

	require.Error(t, err)

	var validationErr *ValidationError

	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "no start node")
	assert.Contains(t, validationErr.Error(), "no end nodes")
	assert.Contains(t, validationErr.Error(), "unreachable nodes")
}

func TestBuilder_Build_CollectsConstructionErrors(t *testing.T) {
	_, err := NewBuilder("build-3", "Bad Connect", models.EnvironmentSandbox).
		AddStartNode("start", "Start", nil).
		AddEndNode("end", "End", nil).
		Connect("start", "end", nil, 0).
		Connect("start", "missing", nil, 0).
		Build()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestBuilder_NodeTypeConstructors(t *testing.T) {
	wf, err := NewBuilder("build-4", "All Types", models.EnvironmentDevelopment).
		AddStartNode("start", "Start", nil).
		AddDecisionNode("decide", "Decide", nil).
		AddParallelNode("split", "Split", nil).
		AddMergeNode("join", "Join", nil).
		AddEndNode("end", "End", nil).
		Connect("start", "decide", nil, 0).
		Connect("decide", "split", nil, 0).
		Connect("split", "join", nil, 0).
		Connect("join", "end", nil, 0).
		Build()

	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeDecision, wf.Nodes["decide"].Type)
	assert.Equal(t, models.NodeTypeParallel, wf.Nodes["split"].Type)
	assert.Equal(t, models.NodeTypeMerge, wf.Nodes["join"].Type)
}
