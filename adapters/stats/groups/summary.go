package groups

import (
	"mvextras/adapters/stats/moments"
	"mvextras/domain/dataset"
)

// Summary is the count, mean and population variance of one group.
type Summary struct {
	Category Category
	Count    int
	Mean     float64
	Variance float64 // denominator Count
}

// GroupedMoments accumulates the response moments per predictor category.
type GroupedMoments struct {
	order  []Category
	groups map[Category]*moments.Welford
}

// NewGroupedMoments returns an empty accumulator.
func NewGroupedMoments() *GroupedMoments {
	return &GroupedMoments{groups: make(map[Category]*moments.Welford)}
}

// Add records response y for category c. Groups are kept in first-seen order.
func (g *GroupedMoments) Add(c Category, y float64) {
	w, ok := g.groups[c]
	if !ok {
		w = &moments.Welford{}
		g.groups[c] = w
		g.order = append(g.order, c)
	}
	w.Add(y)
}

// Summaries returns the group summaries, with or without the missing category.
func (g *GroupedMoments) Summaries(includeMissing bool) []Summary {
	out := make([]Summary, 0, len(g.order))
	for _, c := range g.order {
		if c.Missing && !includeMissing {
			continue
		}
		w := g.groups[c]
		out = append(out, Summary{
			Category: c,
			Count:    w.Count(),
			Mean:     w.Mean(),
			Variance: w.PopulationVariance(),
		})
	}
	return out
}

// Columns splits summaries into the parallel arrays ANOVA consumes.
func Columns(summaries []Summary) (counts []int, means, variances []float64) {
	counts = make([]int, len(summaries))
	means = make([]float64, len(summaries))
	variances = make([]float64, len(summaries))
	for i, s := range summaries {
		counts[i] = s.Count
		means[i] = s.Mean
		variances[i] = s.Variance
	}
	return counts, means, variances
}

// CategoricalNumericScan is the result of one pass over a categorical predictor and a
// numeric response.
type CategoricalNumericScan struct {
	Groups      *GroupedMoments
	Missingness moments.Missingness
}

// ScanCategoricalNumeric groups the response by predictor category. Cases with a missing
// response are skipped for the groups but still counted for missingness.
func ScanCategoricalNumeric(cases []dataset.Case, predictor, response string) *CategoricalNumericScan {
	scan := &CategoricalNumericScan{Groups: NewGroupedMoments()}
	for _, c := range cases {
		cat := CategoryOf(c.Value(predictor))
		y, ok := c.Value(response).AsNumber()
		scan.Missingness.Add(cat.Missing, !ok)
		if ok {
			scan.Groups.Add(cat, y)
		}
	}
	return scan
}
