// Package moments holds single-pass accumulators for means, variances and covariances.
//
// Accumulators follow Welford's update; raw sums of squares are never kept.
package moments

import "math"

// Welford maintains running statistics for mean and variance.
type Welford struct {
	count int
	mean  float64
	m2    float64
}

// Add incorporates a new data point x into the running statistics.
func (w *Welford) Add(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of values that have been added.
func (w *Welford) Count() int { return w.count }

// Mean returns the running mean, 0 when empty.
func (w *Welford) Mean() float64 { return w.mean }

// SumSquares returns Σ(x-mean)².
func (w *Welford) SumSquares() float64 { return w.m2 }

// PopulationVariance returns S/n, or NaN when empty.
func (w *Welford) PopulationVariance() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	return w.m2 / float64(w.count)
}

// SampleVariance returns S/(n-1), or NaN with fewer than 2 values.
func (w *Welford) SampleVariance() float64 {
	if w.count < 2 {
		return math.NaN()
	}
	return w.m2 / float64(w.count-1)
}

// Covariance maintains running means, sums of squared deviations and the cross
// deviation of paired observations.
type Covariance struct {
	n     int
	meanX float64
	meanY float64
	sxx   float64
	syy   float64
	sxy   float64
}

// Add incorporates the pair (x, y).
func (c *Covariance) Add(x, y float64) {
	c.n++
	n := float64(c.n)
	dx := x - c.meanX
	dy := y - c.meanY
	c.meanX += dx / n
	c.meanY += dy / n
	c.sxx += dx * (x - c.meanX)
	c.syy += dy * (y - c.meanY)
	c.sxy += dx * (y - c.meanY)
}

func (c *Covariance) N() int { return c.n }
func (c *Covariance) MeanX() float64 { return c.meanX }
func (c *Covariance) MeanY() float64 { return c.meanY }
func (c *Covariance) SXX() float64 { return c.sxx }
func (c *Covariance) SYY() float64 { return c.syy }
func (c *Covariance) SXY() float64 { return c.sxy }

// SampleCovariance returns Sxy/(n-1), or NaN with fewer than 2 pairs.
func (c *Covariance) SampleCovariance() float64 {
	if c.n < 2 {
		return math.NaN()
	}
	return c.sxy / float64(c.n-1)
}

// Correlation returns the Pearson correlation, NaN when either variance is zero.
func (c *Covariance) Correlation() float64 {
	if c.sxx <= 0 || c.syy <= 0 {
		return math.NaN()
	}
	r := c.sxy / math.Sqrt(c.sxx*c.syy)
	// rounding can push |r| a hair past 1 on exactly collinear data
	return math.Max(-1, math.Min(1, r))
}
