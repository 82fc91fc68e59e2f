package dist

import "math"

const (
	betaMaxIterations = 200
	betaEpsilon       = 1e-10
)

// RegularizedIncompleteBeta returns I_x(a, b) for 0 <= x <= 1 and a, b > 0.
//
// The continued fraction converges fastest below x = (a+1)/(a+b+2); at or above that point
// the symmetry I_x(a, b) = 1 − I_{1−x}(b, a) is applied.
func RegularizedIncompleteBeta(x, a, b float64) float64 {
	if math.IsNaN(x) || math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if a <= 0 || b <= 0 || math.IsInf(a, 0) || math.IsInf(b, 0) || x < 0 || x > 1 {
		return math.NaN()
	}
	if x == 0 {
		return 0
	}
	if x == 1 {
		return 1
	}

	front := math.Exp(LogGamma(a+b) - LogGamma(a) - LogGamma(b) + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(x, a, b) / a
	}
	return 1 - front*betaContinuedFraction(1-x, b, a)/b
}

// betaContinuedFraction evaluates the continued fraction of I_x(a, b) with the modified
// Lentz method, alternating the even and odd recurrence steps.
func betaContinuedFraction(x, a, b float64) float64 {
	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 / clampTiny(1-qab*x/qap)
	h := d
	for m := 1; m <= betaMaxIterations; m++ {
		mf := float64(m)
		m2 := 2 * mf

		// even step
		aa := mf * (b - mf) * x / ((qam + m2) * (a + m2))
		d = 1 / clampTiny(1+aa*d)
		c = clampTiny(1 + aa/c)
		h *= d * c

		// odd step
		aa = -(a + mf) * (qab + mf) * x / ((a + m2) * (qap + m2))
		d = 1 / clampTiny(1+aa*d)
		c = clampTiny(1 + aa/c)
		del := d * c
		h *= del
		if math.Abs(del-1) < betaEpsilon {
			break
		}
	}
	return h
}
