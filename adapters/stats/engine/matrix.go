package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"mvextras/domain/dataset"
	"mvextras/domain/stats"
)

// Matrix computes every ordered pair of attrs, the diagonal included, over the dataset's
// cases. Results are in row-major order of attrs. Pairs run on a bounded pool; each pair
// owns its accumulators. Cancellation is checked before each pair, and a cancelled sweep
// returns the context error and no results.
func (e *StatsEngine) Matrix(ctx context.Context, ds *dataset.Dataset, attrs []dataset.Attribute) ([]stats.Association, error) {
	m := len(attrs)
	results := make([]stats.Association, m*m)
	sem := semaphore.NewWeighted(int64(e.cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)

dispatch:
	for i := range attrs {
		for j := range attrs {
			if err := sem.Acquire(gctx, 1); err != nil {
				break dispatch
			}
			idx, x, y := i*m+j, attrs[i], attrs[j]
			g.Go(func() error {
				defer sem.Release(1)
				if err := gctx.Err(); err != nil {
					return err
				}
				results[idx] = e.Associate(ds.Cases, x, y)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// SweepSummary counts the measure types of a sweep.
type SweepSummary struct {
	Pairs            int                       `json:"pairs"`
	ByMeasure        map[stats.MeasureType]int `json:"by_measure"`
	UndefinedMeasure int                       `json:"undefined_measure"` // computed but NaN
}

// Summarize counts the results of a sweep.
func Summarize(results []stats.Association) SweepSummary {
	s := SweepSummary{Pairs: len(results), ByMeasure: make(map[stats.MeasureType]int)}
	for _, a := range results {
		s.ByMeasure[a.MeasureType]++
		if a.Measure.IsNaN() {
			s.UndefinedMeasure++
		}
	}
	return s
}
