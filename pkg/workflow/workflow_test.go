package workflow

import (
	"testing"

	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_AddNode_Duplicate(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")

	require.NoError(t, wf.AddNode(models.NewNode("a", "A", models.NodeTypeStart)))

	err := wf.AddNode(models.NewNode("a", "A again", models.NodeTypeProcess))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNode)
	assert.Len(t, wf.Nodes, 1)
}

func TestWorkflow_AddNode_FirstStartWins(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")

	require.NoError(t, wf.AddNode(models.NewNode("first", "First Start", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("second", "Second Start", models.NodeTypeStart)))

	// The second start node is stored but does not take over.
	assert.Equal(t, "first", wf.StartNode)
	assert.Len(t, wf.Nodes, 2)
}

func TestWorkflow_AddNode_CollectsEndNodes(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")

	require.NoError(t, wf.AddNode(models.NewNode("start", "Start", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("done", "Done", models.NodeTypeEnd)))
	require.NoError(t, wf.AddNode(models.NewNode("failed", "Failed", models.NodeTypeEnd)))

	assert.Equal(t, []string{"done", "failed"}, wf.EndNodes)
}

func TestWorkflow_AddEdge_UnknownEndpoints(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("a", "A", models.NodeTypeStart)))

	err := wf.AddEdge(models.NewEdge("a_to_b_0", "a", "b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownNode)

	err = wf.AddEdge(models.NewEdge("x_to_a_1", "x", "a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownNode)

	assert.Empty(t, wf.Edges)
}

func TestWorkflow_ConnectNodes_GeneratesEdgeIDs(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("a", "A", models.NodeTypeStart)))
	require.NoError(t, wf.AddNode(models.NewNode("b", "B", models.NodeTypeEnd)))

	first, err := wf.ConnectNodes("a", "b", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "a_to_b_0", first.ID)

	second, err := wf.ConnectNodes("a", "b", models.Equals("retry", true), 5)
	require.NoError(t, err)
	assert.Equal(t, "a_to_b_1", second.ID)
	assert.Equal(t, models.ConditionEquals, second.Condition.Type)
}

func TestWorkflow_GetOutgoingEdges_PriorityOrdering(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, wf.AddNode(models.NewNode(id, id, models.NodeTypeProcess)))
	}

	// Insertion order: low, high, low again. Expect priority descending
	// with insertion order preserved among ties.
	_, err := wf.ConnectNodes("a", "b", nil, 0)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("a", "c", nil, 10)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("a", "d", nil, 0)
	require.NoError(t, err)

	edges := wf.GetOutgoingEdges("a")
	require.Len(t, edges, 3)
	assert.Equal(t, "c", edges[0].ToNode)
	assert.Equal(t, "b", edges[1].ToNode)
	assert.Equal(t, "d", edges[2].ToNode)
}

func TestWorkflow_GetNextNodes_AllMatchingEdges(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")
	for _, id := range []string{"decide", "high", "low", "audit"} {
		require.NoError(t, wf.AddNode(models.NewNode(id, id, models.NodeTypeProcess)))
	}

	_, err := wf.ConnectNodes("decide", "high", models.GreaterThan("value", 50), 1)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("decide", "low", models.LessThan("value", 50), 1)
	require.NoError(t, err)
	_, err = wf.ConnectNodes("decide", "audit", nil, 0)
	require.NoError(t, err)

	// Priority orders results but never prunes: the always-true audit edge
	// fires alongside the matching comparison.
	next, err := wf.GetNextNodes("decide", models.Context{"value": 75})
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "audit"}, next)

	next, err = wf.GetNextNodes("decide", models.Context{"value": 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "audit"}, next)
}

func TestWorkflow_GetNextNodes_ConditionErrorPropagates(t *testing.T) {
	wf := New("w1", "Test", models.EnvironmentDevelopment, "")
	require.NoError(t, wf.AddNode(models.NewNode("a", "A", models.NodeTypeProcess)))
	require.NoError(t, wf.AddNode(models.NewNode("b", "B", models.NodeTypeProcess)))

	_, err := wf.ConnectNodes("a", "b", models.GreaterThan("value", 50), 0)
	require.NoError(t, err)

	_, err = wf.GetNextNodes("a", models.Context{"value": "not-a-number"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIncomparableValues)
}
