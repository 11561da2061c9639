package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkflow/pinkflow/pkg/models"
)

func TestAll_BuildsAndExecutes(t *testing.T) {
	workflows, err := All()
	require.NoError(t, err)
	require.Len(t, workflows, 4)

	for _, wf := range workflows {
		t.Run(wf.ID, func(t *testing.T) {
			result, err := wf.Execute(models.Context{}, 0)
			require.NoError(t, err)
			assert.Equal(t, true, result[models.ContextKeyCompleted])
			assert.Empty(t, wf.Validate())
		})
	}
}

func TestDevelopmentCycle_PassesGatesFirstTry(t *testing.T) {
	wf, err := DevelopmentCycle()
	require.NoError(t, err)

	result, err := wf.Execute(models.Context{}, 0)
	require.NoError(t, err)

	assert.Equal(t, true, result["tests_passed"])
	assert.Equal(t, true, result["review_approved"])
	assert.Equal(t, "staging", result["deployed_to"])

	path, ok := result[models.ContextKeyExecutionPath].([]string)
	require.True(t, ok)
	assert.NotContains(t, path, "fix_issues")
	assert.Equal(t, "end", path[len(path)-1])
}

func TestSandboxExperiment_PromotesValidResults(t *testing.T) {
	wf, err := SandboxExperiment()
	require.NoError(t, err)

	result, err := wf.Execute(models.Context{}, 0)
	require.NoError(t, err)

	assert.Equal(t, true, result["promoted"])
	assert.Nil(t, result["rolled_back"])
}

func TestProductionDeployment_HealthyCanaryDeploysFully(t *testing.T) {
	wf, err := ProductionDeployment()
	require.NoError(t, err)

	result, err := wf.Execute(models.Context{}, 0)
	require.NoError(t, err)

	assert.Equal(t, true, result["deployment_complete"])

	path, ok := result[models.ContextKeyExecutionPath].([]string)
	require.True(t, ok)
	assert.NotContains(t, path, "rollback")
}
