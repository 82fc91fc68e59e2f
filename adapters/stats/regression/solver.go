package regression

import "math"

// Options controls the coordinate descent loop.
type Options struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultOptions returns 50 major iterations and a 1e-6 convergence threshold.
func DefaultOptions() Options {
	return Options{MaxIterations: 50, Tolerance: 1e-6}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) {
		o.Tolerance = d.Tolerance
	}
	return o
}

// degenerateNorm is the column inner product below which a coefficient is left alone.
const degenerateNorm = 1e-10

// Solution is the result of CoordinateDescent.
type Solution struct {
	Beta       []float64
	Iterations int
	Converged  bool
	MaxChange  float64 // largest coefficient change in the last major iteration
}

// CoordinateDescent minimizes ||y - Xβ||² for centered columns by cyclic exact
// coordinate updates, starting from β = 0. A major iteration updates every coefficient
// once in column order; the loop stops when the largest change in one major iteration is
// below opts.Tolerance, when no coordinate update against the current residual would move a
// coefficient by opts.Tolerance, or after opts.MaxIterations.
func CoordinateDescent(columns [][]float64, y []float64, opts Options) Solution {
	opts = opts.normalized()
	p := len(columns)
	beta := make([]float64, p)
	norms := make([]float64, p)
	for j, col := range columns {
		norms[j] = dot(col, col)
	}

	// residual r = y - Xβ, kept current after each coordinate update
	resid := append([]float64(nil), y...)

	sol := Solution{Beta: beta}
	for sol.Iterations < opts.MaxIterations {
		sol.Iterations++
		maxChange := 0.0
		for j, col := range columns {
			if norms[j] < degenerateNorm {
				continue
			}
			// X_jᵗ(y - Σ_{k≠j} X_k β_k) = X_jᵗ r + ||X_j||² β_j
			next := (dot(col, resid) + norms[j]*beta[j]) / norms[j]
			delta := next - beta[j]
			if delta == 0 {
				continue
			}
			for i, x := range col {
				resid[i] -= x * delta
			}
			beta[j] = next
			if d := math.Abs(delta); d > maxChange {
				maxChange = d
			}
		}
		sol.MaxChange = maxChange
		if maxChange < opts.Tolerance || maxStep(columns, norms, resid) < opts.Tolerance {
			sol.Converged = true
			break
		}
	}
	return sol
}

// maxStep is the largest change another major iteration would start with: the exact
// coordinate update of each column against the current residual.
func maxStep(columns [][]float64, norms, resid []float64) float64 {
	step := 0.0
	for j, col := range columns {
		if norms[j] < degenerateNorm {
			continue
		}
		if d := math.Abs(dot(col, resid) / norms[j]); d > step {
			step = d
		}
	}
	return step
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func centered(xs []float64, m float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x - m
	}
	return out
}
