package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jseverin/hmclab/internal/mcmc"
)

func sampleTrace(t *testing.T) *mcmc.Trace {
	t.Helper()
	space := mcmc.NewSpace(
		mcmc.Variable{Name: "pos", Size: 2},
		mcmc.Variable{Name: "x", Size: 1},
	)
	trace := mcmc.NewTrace(space, 3)
	trace.Append(mcmc.Vector{1.5, -2.25, 0.125})
	trace.Append(mcmc.Vector{0, 0.5, -1})
	trace.Append(mcmc.Vector{3, 4, 5})
	trace.FinalStepSize = 0.25
	trace.AcceptanceRate = 0.85
	trace.Divergences = 2
	return trace
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	trace := sampleTrace(t)
	runID, err := store.Save("banana", "nuts", 42, 500, 2, trace)
	require.NoError(t, err)
	assert.Contains(t, runID, "banana_")

	meta, err := store.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "banana", meta.Target)
	assert.Equal(t, "nuts", meta.Sampler)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 3, meta.NSamples)
	assert.Equal(t, 500, meta.NWarmup)
	assert.Equal(t, 2, meta.Thin)
	assert.Equal(t, 0.25, meta.FinalStepSize)
	assert.Equal(t, 0.85, meta.AcceptanceRate)
	assert.Equal(t, 2, meta.Divergences)
}

func TestLoadTraceColumns(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	runID, err := store.Save("banana", "nuts", 1, 0, 1, sampleTrace(t))
	require.NoError(t, err)

	series, err := store.LoadTrace(runID)
	require.NoError(t, err)

	// Vector variables get one column per component, scalars keep their name.
	assert.Equal(t, []float64{1.5, 0, 3}, series["pos[0]"])
	assert.Equal(t, []float64{-2.25, 0.5, 4}, series["pos[1]"])
	assert.Equal(t, []float64{0.125, -1, 5}, series["x"])
}

func TestListSkipsBrokenEntries(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, store.Init())

	_, err := store.Save("normal", "hmc", 3, 100, 1, sampleTrace(t))
	require.NoError(t, err)

	// A directory without metadata and a stray file are both ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty_run"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "normal", runs[0].Target)
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Load("missing")
	assert.Error(t, err)

	_, err = store.LoadTrace("missing")
	assert.Error(t, err)
}
