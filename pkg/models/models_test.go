package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Run_WithoutAction(t *testing.T) {
	node := NewNode("step-1", "Step One", NodeTypeProcess)

	ctx := Context{"value": 1}
	result, err := node.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Context{"value": 1}, result)
}

func TestNode_Run_ActionReplacesContext(t *testing.T) {
	node := NewNode("step-1", "Step One", NodeTypeProcess).WithAction(func(ctx Context) (Context, error) {
		ctx["visited"] = true

		return ctx, nil
	})

	result, err := node.Run(Context{})
	require.NoError(t, err)
	assert.Equal(t, true, result["visited"])
}

func TestNode_Validation(t *testing.T) {
	validate := validator.New()

	node := NewNode("step-1", "Step One", NodeTypeProcess)
	require.NoError(t, validate.Struct(node))

	missing := &Node{ID: "", Name: "No ID", Type: NodeTypeProcess}
	assert.Error(t, validate.Struct(missing))

	badType := &Node{ID: "x", Name: "Bad Type", Type: NodeType("loop")}
	assert.Error(t, validate.Struct(badType))
}

func TestEdge_CanTraverse_NilConditionIsAlways(t *testing.T) {
	edge := &Edge{ID: "a_to_b_0", FromNode: "a", ToNode: "b"}

	ok, err := edge.CanTraverse(Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContext_Clone(t *testing.T) {
	original := Context{"a": 1, "b": "two"}

	clone := original.Clone()
	clone["a"] = 99

	assert.Equal(t, 1, original["a"])
	assert.Equal(t, 99, clone["a"])
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment("production")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProduction, env)

	_, err = ParseEnvironment("qa")
	assert.Error(t, err)
}
