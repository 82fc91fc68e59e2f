// Package inference turns accumulated summaries into test statistics, p-values and
// confidence intervals. Undefined quantities are NaN; nothing here returns an error.
package inference

import (
	"math"

	"mvextras/adapters/stats/dist"
)

// ANOVASource names an ANOVA table row.
type ANOVASource string

const (
	SourceBetween ANOVASource = "Between"
	SourceWithin  ANOVASource = "Within"
)

// ANOVARow is one row of a one-way ANOVA table. F, PValue and EtaSquared are only
// defined on the Between row.
type ANOVARow struct {
	Source         ANOVASource `json:"source"`
	SumSquares     float64     `json:"ss"`
	DegreesFreedom float64     `json:"df"`
	MeanSquare     float64     `json:"ms"`
	F              float64     `json:"f"`
	PValue         float64     `json:"p"`
	EtaSquared     float64     `json:"eta_squared"`
}

// ANOVATable holds the Between and Within rows of one invocation.
type ANOVATable struct {
	Between ANOVARow
	Within  ANOVARow
}

// Rows returns the table as Between, Within.
func (t ANOVATable) Rows() []ANOVARow {
	return []ANOVARow{t.Between, t.Within}
}

// SumSquaresTotal is the total sum of squares shared by both rows.
func (t ANOVATable) SumSquaresTotal() float64 {
	return t.Between.SumSquares + t.Within.SumSquares
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

func nanTable() ANOVATable {
	nan := math.NaN()
	return ANOVATable{
		Between: ANOVARow{Source: SourceBetween, SumSquares: nan, DegreesFreedom: nan, MeanSquare: nan, F: nan, PValue: nan, EtaSquared: nan},
		Within:  ANOVARow{Source: SourceWithin, SumSquares: nan, DegreesFreedom: nan, MeanSquare: nan, F: nan, PValue: nan, EtaSquared: nan},
	}
}

// ComputeANOVA builds a one-way ANOVA table from group summaries. Variances use the
// denominator n_i, so n_i*variance_i is the group's sum of squared deviations. With fewer
// than two groups or no observations every entry is NaN.
func ComputeANOVA(counts []int, means, variances []float64) ANOVATable {
	k := len(counts)
	if k < 2 || len(means) != k || len(variances) != k {
		return nanTable()
	}
	total := 0
	weighted := 0.0
	for i, n := range counts {
		total += n
		weighted += float64(n) * means[i]
	}
	if total == 0 {
		return nanTable()
	}
	grandMean := weighted / float64(total)

	ssBetween, ssWithin := 0.0, 0.0
	for i, n := range counts {
		if n == 0 {
			continue
		}
		d := means[i] - grandMean
		ssBetween += float64(n) * d * d
		ssWithin += float64(n) * variances[i]
	}
	ssTotal := ssBetween + ssWithin

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	msBetween := safeDivide(ssBetween, dfBetween)
	msWithin := safeDivide(ssWithin, dfWithin)
	f := safeDivide(msBetween, msWithin)

	p := math.NaN()
	if !math.IsNaN(f) && f >= 0 {
		p = 1 - dist.FCDF(f, dfBetween, dfWithin)
	}

	nan := math.NaN()
	return ANOVATable{
		Between: ANOVARow{
			Source:         SourceBetween,
			SumSquares:     ssBetween,
			DegreesFreedom: dfBetween,
			MeanSquare:     msBetween,
			F:              f,
			PValue:         p,
			EtaSquared:     safeDivide(ssBetween, ssTotal),
		},
		Within: ANOVARow{
			Source:         SourceWithin,
			SumSquares:     ssWithin,
			DegreesFreedom: dfWithin,
			MeanSquare:     msWithin,
			F:              nan,
			PValue:         nan,
			EtaSquared:     nan,
		},
	}
}
