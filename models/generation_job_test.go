package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationSteps_SetStatus(t *testing.T) {
	steps := PendingSteps("Drafting Plaint", "Rendering PDF")

	assert.True(t, steps.SetStatus("Rendering PDF", StepInProgress))
	assert.False(t, steps.SetStatus("Uploading", StepFailed))

	assert.Equal(t, StepPending, steps[0].Status)
	assert.Equal(t, StepInProgress, steps[1].Status)
}

func TestGenerationSteps_ScanRoundTrip(t *testing.T) {
	steps := PendingSteps("Validating Fields")
	v, err := steps.Value()
	require.NoError(t, err)

	var got GenerationSteps
	require.NoError(t, got.Scan(v))
	assert.Equal(t, steps, got)

	for _, empty := range []interface{}{nil, "", []byte{}} {
		var g GenerationSteps
		require.NoError(t, g.Scan(empty))
		assert.Empty(t, g)
		assert.NotNil(t, g)
	}

	var bad GenerationSteps
	assert.Error(t, bad.Scan(42))
}
