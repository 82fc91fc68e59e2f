package inference

import (
	"math"

	"mvextras/adapters/stats/dist"
)

// DefaultZ is the normal quantile for a 95% interval.
const DefaultZ = 1.96

// CI diagnostics
const (
	DiagRangeError      = "Correlation coefficient must be between -1 and 1"
	DiagSampleTooSmall  = "Sample size must be greater than 3"
	DiagPerfectEstimate = "Perfect correlation - CI is the point estimate"
)

// CorrelationCI is a Fisher z confidence interval for a correlation.
type CorrelationCI struct {
	Low  float64
	High float64
	// ZTransformed, StandardError and MarginOfError are only set for a regular interval.
	ZTransformed  float64
	StandardError float64
	MarginOfError float64
	Diagnostic    string
}

// ComputeCorrelationCI returns the interval for r from n complete cases at normal quantile z.
func ComputeCorrelationCI(r float64, n int, z float64) CorrelationCI {
	nan := math.NaN()
	ci := CorrelationCI{Low: nan, High: nan, ZTransformed: nan, StandardError: nan, MarginOfError: nan}
	switch {
	case math.IsNaN(r) || r < -1 || r > 1:
		ci.Diagnostic = DiagRangeError
		return ci
	case n <= 3:
		ci.Diagnostic = DiagSampleTooSmall
		return ci
	case math.Abs(r) == 1:
		ci.Low, ci.High = r, r
		ci.Diagnostic = DiagPerfectEstimate
		return ci
	}

	zr := 0.5 * math.Log((1+r)/(1-r))
	se := 1 / math.Sqrt(float64(n-3))
	me := z * se
	ci.ZTransformed = zr
	ci.StandardError = se
	ci.MarginOfError = me
	ci.Low = fisherInverse(zr - me)
	ci.High = fisherInverse(zr + me)
	return ci
}

func fisherInverse(z float64) float64 {
	e := math.Exp(2 * z)
	if math.IsInf(e, 1) {
		return 1
	}
	return (e - 1) / (e + 1)
}

// PearsonPValue is the two-sided normal approximation to the p-value of r from n complete
// cases. |r| = 1 gives exactly 0.
func PearsonPValue(r float64, n int) float64 {
	if math.IsNaN(r) || n <= 2 {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	return 2 * (1 - dist.NormalCDF(math.Abs(t)))
}
