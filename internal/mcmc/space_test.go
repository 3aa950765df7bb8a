package mcmc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceFromValuesDeterministicLayout(t *testing.T) {
	values := map[string][]float64{
		"mu":    {1.0},
		"sigma": {2.0},
		"beta":  {0.1, 0.2, 0.3},
	}

	s1, err := SpaceFromValues(values)
	require.NoError(t, err)
	s2, err := SpaceFromValues(values)
	require.NoError(t, err)

	assert.Equal(t, 5, s1.Dim())
	assert.Equal(t, s1.Variables(), s2.Variables())

	// Sorted name order: beta, mu, sigma.
	offset, size, ok := s1.Slot("beta")
	require.True(t, ok)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 3, size)

	offset, size, ok = s1.Slot("mu")
	require.True(t, ok)
	assert.Equal(t, 3, offset)
	assert.Equal(t, 1, size)
}

func TestSpaceFromValuesEmpty(t *testing.T) {
	_, err := SpaceFromValues(map[string][]float64{})
	assert.ErrorIs(t, err, ErrEmptySpace)
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	space := NewSpace(
		Variable{Name: "a", Size: 2},
		Variable{Name: "b", Size: 1},
	)

	values := map[string][]float64{
		"a": {1.5, -2.5},
		"b": {3.0},
	}

	x, err := space.Flatten(values)
	require.NoError(t, err)
	assert.Equal(t, Vector{1.5, -2.5, 3.0}, x)

	back := space.Unflatten(x)
	assert.Equal(t, values, back)
}

func TestFlattenKeyMismatch(t *testing.T) {
	space := NewSpace(Variable{Name: "a", Size: 1}, Variable{Name: "b", Size: 1})

	_, err := space.Flatten(map[string][]float64{"a": {1.0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVariableMismatch)

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"b"}, mismatch.Missing)

	_, err = space.Flatten(map[string][]float64{
		"a": {1.0}, "b": {2.0}, "c": {3.0},
	})
	require.Error(t, err)
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"c"}, mismatch.Extra)
}

func TestSlotUnknownVariable(t *testing.T) {
	space := NewSpace(Variable{Name: "a", Size: 1})
	_, _, ok := space.Slot("nope")
	assert.False(t, ok)
}
