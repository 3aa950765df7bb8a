package nuts

import "math"

// Dual-averaging defaults from the warmup controller.
const (
	AdaptGamma = 0.05
	AdaptT0    = 10.0
	AdaptKappa = 0.75
)

// DualAveraging tunes the leapfrog step size toward a target acceptance
// statistic during warmup. It is owned by a single chain and is frozen at
// the warmup/sampling boundary, after which it is read-only.
type DualAveraging struct {
	mu     float64
	target float64

	logStep    float64
	logStepBar float64
	hBar       float64
	iter       int
	frozen     bool
}

func NewDualAveraging(eps0, target float64) *DualAveraging {
	return &DualAveraging{
		mu:      math.Log(10 * eps0),
		target:  target,
		logStep: math.Log(eps0),
	}
}

// Update consumes one warmup iteration's acceptance statistic and returns
// the step size for the next iteration. After Freeze it is a no-op.
func (a *DualAveraging) Update(acceptStat float64) float64 {
	if a.frozen {
		return math.Exp(a.logStepBar)
	}

	i := float64(a.iter)
	eta := 1.0 / (i + 1 + AdaptT0)
	a.hBar = (1-eta)*a.hBar + eta*(a.target-acceptStat)
	a.logStep = a.mu - math.Sqrt(i+1)/AdaptGamma*a.hBar

	w := math.Pow(i+1, -AdaptKappa)
	a.logStepBar = w*a.logStep + (1-w)*a.logStepBar

	a.iter++
	return math.Exp(a.logStep)
}

// Freeze fixes the step size to the running average exp(logStepSizeBar) and
// returns it. Subsequent Update calls leave the adapter untouched.
func (a *DualAveraging) Freeze() float64 {
	if a.iter == 0 {
		// No warmup iterations ran; keep the configured step size.
		a.logStepBar = a.logStep
	}
	a.frozen = true
	return math.Exp(a.logStepBar)
}

func (a *DualAveraging) StepSize() float64 {
	if a.frozen {
		return math.Exp(a.logStepBar)
	}
	return math.Exp(a.logStep)
}

func (a *DualAveraging) Frozen() bool { return a.frozen }
