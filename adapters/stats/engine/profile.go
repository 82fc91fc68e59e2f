package engine

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"mvextras/domain/dataset"
	"mvextras/domain/stats"
)

// Profile summarizes one attribute. Numeric attributes get descriptive statistics of their
// finite values; categorical and other attributes get the distinct count and the mode.
func (e *StatsEngine) Profile(ds *dataset.Dataset, attr dataset.Attribute) stats.AttributeProfile {
	kind := attr.Kind()
	p := stats.AttributeProfile{
		Name:        attr.Name,
		Type:        attr.Type,
		Kind:        string(kind),
		Count:       len(ds.Cases),
		MissingRate: stats.Of(math.NaN()),
	}

	if kind == dataset.KindNumeric {
		data := make([]float64, 0, len(ds.Cases))
		seen := make(map[float64]bool)
		for _, c := range ds.Cases {
			v, ok := c.Value(attr.Name).AsNumber()
			if !ok {
				p.Missing++
				continue
			}
			data = append(data, v)
			seen[v] = true
		}
		p.Distinct = len(seen)
		p.Mean = describe(mstats.Mean, data)
		p.StdDev = describe(mstats.StandardDeviationSample, data)
		p.Median = describe(mstats.Median, data)
		p.Min = describe(mstats.Min, data)
		p.Max = describe(mstats.Max, data)
	} else {
		counts := make(map[string]int)
		var order []string
		for _, c := range ds.Cases {
			label, ok := c.Value(attr.Name).AsCategory()
			if !ok {
				p.Missing++
				continue
			}
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
		}
		p.Distinct = len(order)
		best := 0
		for _, label := range order {
			if counts[label] > best {
				best = counts[label]
				p.Mode = label
			}
		}
	}

	if p.Count > 0 {
		p.MissingRate = stats.Of(float64(p.Missing) / float64(p.Count))
	}
	return p
}

// describe wraps a montanaflynn statistic; an empty or too-short input is NaN.
func describe(fn func(mstats.Float64Data) (float64, error), data []float64) stats.Stat {
	v, err := fn(data)
	if err != nil {
		return stats.Of(math.NaN())
	}
	return stats.Of(v)
}
