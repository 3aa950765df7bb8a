// Package diag provides posterior diagnostics computed over traces:
// per-variable summaries, effective sample size, and split R-hat for
// multi-chain convergence checks.
package diag

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes one variable's retained samples.
type Summary struct {
	Mean   float64
	Std    float64
	Q5     float64
	Median float64
	Q95    float64
	ESS    float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	return Summary{
		Mean:   stat.Mean(series, nil),
		Std:    stat.StdDev(series, nil),
		Q5:     stat.Quantile(0.05, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		ESS:    ESS(series),
	}
}

// ESS estimates the effective sample size via Geyer's initial positive
// sequence: autocorrelations are summed in lag pairs until a pair sum goes
// negative.
func ESS(series []float64) float64 {
	n := len(series)
	if n < 4 {
		return float64(n)
	}

	mean := stat.Mean(series, nil)
	variance := stat.Variance(series, nil)
	if variance == 0 {
		return float64(n)
	}

	rho := func(lag int) float64 {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += (series[i] - mean) * (series[i+lag] - mean)
		}
		return sum / (float64(n-1) * variance)
	}

	sumRho := 0.0
	for lag := 1; lag+1 < n; lag += 2 {
		pair := rho(lag) + rho(lag+1)
		if pair < 0 {
			break
		}
		sumRho += pair
	}

	ess := float64(n) / (1 + 2*sumRho)
	if ess > float64(n) {
		return float64(n)
	}
	return ess
}

// SplitRHat computes the split-chain potential scale reduction factor. Each
// chain is halved so within-chain drift shows up as between-chain variance.
// Values near 1.0 indicate convergence; NaN is returned when there is too
// little data to split.
func SplitRHat(chains [][]float64) float64 {
	var halves [][]float64
	for _, chain := range chains {
		mid := len(chain) / 2
		if mid < 2 {
			return math.NaN()
		}
		halves = append(halves, chain[:mid], chain[mid:mid*2])
	}

	n := float64(len(halves[0]))

	means := make([]float64, len(halves))
	variances := make([]float64, len(halves))
	for i, h := range halves {
		means[i] = stat.Mean(h, nil)
		variances[i] = stat.Variance(h, nil)
	}

	w := stat.Mean(variances, nil)
	b := n * stat.Variance(means, nil)

	if w == 0 {
		return math.NaN()
	}

	varPlus := (n-1)/n*w + b/n
	return math.Sqrt(varPlus / w)
}
