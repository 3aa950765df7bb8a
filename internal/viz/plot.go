// Package viz renders traces in the terminal: asciigraph series plots,
// histogram bars, and a live bubbletea view of a running chain.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders one variable's sample series as an ascii line plot.
func PlotSeries(caption string, series []float64, width, height int) string {
	if len(series) == 0 {
		return "no data"
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Histogram renders a fixed-width bar histogram of the series.
func Histogram(series []float64, bins, width int) string {
	if len(series) == 0 {
		return "no data"
	}
	if bins < 1 {
		bins = 20
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	counts := make([]int, bins)
	binWidth := (hi - lo) / float64(bins)
	for _, v := range series {
		idx := int((v - lo) / binWidth)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	var sb strings.Builder
	for i, c := range counts {
		barLen := 0
		if maxCount > 0 {
			barLen = c * width / maxCount
		}
		center := lo + (float64(i)+0.5)*binWidth
		sb.WriteString(fmt.Sprintf("%8.3f | %s %d\n", center, strings.Repeat("█", barLen), c))
	}
	return sb.String()
}
