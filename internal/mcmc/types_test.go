package mcmc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorClone(t *testing.T) {
	v := Vector{1, 2, 3}
	c := v.Clone()
	c[0] = 99
	assert.Equal(t, 1.0, v[0])
}

func TestVectorIsValid(t *testing.T) {
	assert.True(t, Vector{1, -2, 0}.IsValid())
	assert.False(t, Vector{1, math.NaN()}.IsValid())
	assert.False(t, Vector{math.Inf(1)}.IsValid())
	assert.False(t, Vector{math.Inf(-1), 0}.IsValid())
}

func TestVectorDotAndKineticEnergy(t *testing.T) {
	v := Vector{3, 4}
	assert.Equal(t, 25.0, v.Dot(v))
	assert.Equal(t, 12.5, v.KineticEnergy())
	assert.Equal(t, 5.0, v.Norm())
}

func TestVectorNegate(t *testing.T) {
	v := Vector{1, -2}
	assert.Equal(t, Vector{-1, 2}, v.Negate())
}

func TestNUTSConfigValidate(t *testing.T) {
	cfg := DefaultNUTSConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.StepSize = 0
	assert.ErrorIs(t, bad.Validate(), ErrStepSize)

	bad = cfg
	bad.MaxTreeDepth = 0
	assert.ErrorIs(t, bad.Validate(), ErrMaxTreeDepth)

	bad = cfg
	bad.TargetAcceptance = 1.0
	assert.ErrorIs(t, bad.Validate(), ErrTargetAcceptance)

	bad = cfg
	bad.TargetAcceptance = -0.1
	assert.ErrorIs(t, bad.Validate(), ErrTargetAcceptance)

	bad = cfg
	bad.DeltaMax = -1
	assert.ErrorIs(t, bad.Validate(), ErrDeltaMax)
}

func TestHMCConfigValidate(t *testing.T) {
	require.NoError(t, HMCConfig{StepSize: 0.1, NSteps: 10}.Validate())
	assert.ErrorIs(t, HMCConfig{StepSize: -0.1, NSteps: 10}.Validate(), ErrStepSize)
	assert.ErrorIs(t, HMCConfig{StepSize: 0.1, NSteps: 0}.Validate(), ErrNumSteps)
}

func TestTraceAppendAndScalar(t *testing.T) {
	space := NewSpace(Variable{Name: "x", Size: 1}, Variable{Name: "v", Size: 2})
	trace := NewTrace(space, 4)

	trace.Append(Vector{1.0, 10.0, 20.0})
	trace.Append(Vector{2.0, 30.0, 40.0})

	assert.Equal(t, 2, trace.NSamples)
	assert.Equal(t, []float64{1.0, 2.0}, trace.Scalar("x"))
	assert.Nil(t, trace.Scalar("v"), "vector-valued variable has no scalar series")
	assert.Nil(t, trace.Scalar("missing"))
	assert.Equal(t, [][]float64{{10.0, 20.0}, {30.0, 40.0}}, trace.Values["v"])
}
