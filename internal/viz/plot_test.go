package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jseverin/hmclab/internal/mcmc"
)

func TestPlotSeriesEmpty(t *testing.T) {
	assert.Equal(t, "no data", PlotSeries("x", nil, 40, 10))
}

func TestPlotSeriesIncludesCaption(t *testing.T) {
	out := PlotSeries("trace of x", []float64{0, 1, 0, -1, 0}, 40, 8)
	assert.Contains(t, out, "trace of x")
}

func TestHistogramCountsSumToInput(t *testing.T) {
	series := []float64{0, 0.1, 0.2, 1, 1.1, 2, 2, 2}
	out := Histogram(series, 4, 20)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, out, "█")
}

func TestHistogramConstantSeries(t *testing.T) {
	out := Histogram([]float64{1, 1, 1}, 5, 20)
	assert.NotEmpty(t, out, "degenerate range widens instead of dividing by zero")
}

func TestChannelObserverNeverBlocks(t *testing.T) {
	space := mcmc.NewSpace(mcmc.Variable{Name: "x", Size: 1})
	obs, err := NewChannelObserver(space, "x")
	require.NoError(t, err)

	// Push far more samples than the channel holds; extras are dropped.
	for i := 0; i < historyCapacity*3; i++ {
		obs.OnSample(i, mcmc.Vector{float64(i)}, 1, false)
	}

	drained := 0
	for {
		select {
		case <-obs.ch:
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, historyCapacity, drained)
}

func TestChannelObserverUnknownVariable(t *testing.T) {
	space := mcmc.NewSpace(mcmc.Variable{Name: "x", Size: 1})
	_, err := NewChannelObserver(space, "y")
	assert.Error(t, err)
}
