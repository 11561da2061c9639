package workflow

import (
	"encoding/json"
	"testing"

	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildExportWorkflow(t *testing.T) *Workflow {
	t.Helper()

	wf, err := NewBuilder("export-1", "Export Test", models.EnvironmentProduction).
		WithDescription("serialization contract").
		AddStartNode("start", "Start", nil).
		AddDecisionNode("decide", "Decide", nil).
		AddProcessNode("ship", "Ship", nil, map[string]any{"region": "eu"}).
		AddEndNode("end", "End", nil).
		Connect("start", "decide", nil, 0).
		Connect("decide", "ship", models.GreaterThan("score", 80), 2).
		Connect("decide", "end", models.LessThan("score", 80), 1).
		Connect("ship", "end", nil, 0).
		Build()
	require.NoError(t, err)

	return wf
}

func TestWorkflow_ToStructured_Shape(t *testing.T) {
	wf := buildExportWorkflow(t)

	structured := wf.ToStructured()

	assert.Equal(t, "export-1", structured["workflow_id"])
	assert.Equal(t, "Export Test", structured["name"])
	assert.Equal(t, "production", structured["environment"])
	assert.Equal(t, "serialization contract", structured["description"])
	assert.Equal(t, "start", structured["start_node"])
	assert.Equal(t, []string{"end"}, structured["end_nodes"])

	nodes, ok := structured["nodes"].(map[string]any)
	require.True(t, ok)
	require.Len(t, nodes, 4)

	ship, ok := nodes["ship"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ship", ship["node_id"])
	assert.Equal(t, "process", ship["type"])
	assert.Equal(t, map[string]any{"region": "eu"}, ship["config"])

	edges, ok := structured["edges"].([]any)
	require.True(t, ok)
	require.Len(t, edges, 4)

	second, ok := edges[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "decide_to_ship_1", second["edge_id"])
	assert.Equal(t, "decide", second["from"])
	assert.Equal(t, "ship", second["to"])
	assert.Equal(t, "greater_than", second["condition_type"])
	assert.Equal(t, 2, second["priority"])
}

func TestWorkflow_ToStructured_Idempotent(t *testing.T) {
	wf := buildExportWorkflow(t)

	first, err := json.Marshal(wf.ToStructured())
	require.NoError(t, err)

	second, err := json.Marshal(wf.ToStructured())
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestWorkflow_ToJSON_RoundTripPreservesStructure(t *testing.T) {
	wf := buildExportWorkflow(t)

	exported, err := wf.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal([]byte(exported), &decoded))

	assert.Equal(t, "export-1", decoded["workflow_id"])
	assert.Equal(t, "production", decoded["environment"])

	nodes, ok := decoded["nodes"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, nodes, len(wf.Nodes))

	edges, ok := decoded["edges"].([]any)
	require.True(t, ok)
	assert.Len(t, edges, len(wf.Edges))
}
