package inference

import (
	"math"

	"mvextras/adapters/stats/dist"
	"mvextras/adapters/stats/groups"
)

// ChiSquaredResult is a Pearson chi-squared test of independence.
type ChiSquaredResult struct {
	Statistic float64
	DF        float64
	PValue    float64
	// PValueWilsonHilferty is the same tail probability from the normal approximation,
	// kept for cross-checking. It is not the reported p-value.
	PValueWilsonHilferty float64
	CramersV             float64
	N                    int
}

// ChiSquared tests the table for independence. Categories with an empty margin do not count
// toward the degrees of freedom. An empty table gives an all-NaN result; Cramér's V is NaN
// when either axis has fewer than two occupied categories.
func ChiSquared(table *groups.Table) ChiSquaredResult {
	nan := math.NaN()
	n := table.Total()
	if n == 0 {
		return ChiSquaredResult{Statistic: nan, DF: nan, PValue: nan, PValueWilsonHilferty: nan, CramersV: nan}
	}

	rowTotals := make([]float64, len(table.Rows))
	colTotals := make([]float64, len(table.Cols))
	for i, r := range table.Rows {
		for j, c := range table.Cols {
			o := float64(table.Count(r, c))
			rowTotals[i] += o
			colTotals[j] += o
		}
	}

	grand := float64(n)
	stat := 0.0
	for i, r := range table.Rows {
		for j, c := range table.Cols {
			e := rowTotals[i] * colTotals[j] / grand
			if e <= 0 {
				continue
			}
			d := float64(table.Count(r, c)) - e
			stat += d * d / e
		}
	}

	rows, cols := occupied(rowTotals), occupied(colTotals)
	df := float64((rows - 1) * (cols - 1))
	res := ChiSquaredResult{
		Statistic:            stat,
		DF:                   df,
		PValue:               1 - dist.ChiSquaredCDF(stat, df),
		PValueWilsonHilferty: 1 - dist.WilsonHilfertyCDF(stat, df),
		CramersV:             nan,
		N:                    n,
	}
	if m := min(rows, cols); m >= 2 {
		res.CramersV = math.Min(1, math.Sqrt(stat/(grand*float64(m-1))))
	}
	return res
}

// occupied counts the categories with a non-zero margin.
func occupied(totals []float64) int {
	n := 0
	for _, t := range totals {
		if t > 0 {
			n++
		}
	}
	return n
}
