package engine

import (
	"math"

	"mvextras/adapters/stats/groups"
	"mvextras/adapters/stats/inference"
	"mvextras/adapters/stats/moments"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
)

// Associate computes the association of one ordered (predictor, response) pair. The
// measure is chosen from the two attribute kinds:
//
//	numeric     × numeric     Pearson
//	categorical × numeric     eta
//	categorical × categorical Cramér's V
//	numeric     × categorical per NPCR mode
//	anything with Other       missingness only
func (e *StatsEngine) Associate(cases []dataset.Case, predictor, response dataset.Attribute) stats.Association {
	kx, ky := predictor.Kind(), response.Kind()
	switch {
	case kx == dataset.KindNumeric && ky == dataset.KindNumeric:
		return e.pearson(cases, predictor.Name, response.Name)
	case kx == dataset.KindCategorical && ky == dataset.KindNumeric:
		return eta(cases, predictor.Name, response.Name)
	case kx == dataset.KindCategorical && ky == dataset.KindCategorical:
		return cramersV(cases, predictor.Name, response.Name)
	case kx == dataset.KindNumeric && ky == dataset.KindCategorical:
		return e.numericPredictsCategorical(cases, predictor.Name, response.Name)
	default:
		a := missingnessOnly(cases, predictor.Name, dataset.KindCategorical, response.Name, dataset.KindCategorical)
		a.MeasureType = stats.MeasureUnsupported
		return a
	}
}

func newAssociation(predictor, response string, mt stats.MeasureType, m *moments.Missingness) stats.Association {
	return stats.Association{
		Predictor:              predictor,
		Response:               response,
		MeasureType:            mt,
		NCompleteCases:         m.Complete(),
		TotalCases:             m.Total(),
		NMissingX:              m.MissingX(),
		NMissingY:              m.MissingY(),
		MissingnessCorrelation: stats.Of(m.Correlation()),
	}
}

func (e *StatsEngine) pearson(cases []dataset.Case, x, y string) stats.Association {
	scan := moments.ScanNumericPair(cases, x, y)
	a := newAssociation(x, y, stats.MeasurePearson, &scan.Missingness)

	r := scan.Pearson()
	n := scan.Missingness.Complete()
	a.Measure = stats.Of(r)
	if math.IsNaN(r) {
		a.CILow, a.CIHigh, a.PValue = stats.Of(math.NaN()), stats.Of(math.NaN()), stats.Of(math.NaN())
		return a
	}

	ci := inference.ComputeCorrelationCI(r, n, e.cfg.CIZ)
	a.CILow = stats.Of(ci.Low)
	a.CIHigh = stats.Of(ci.High)
	a.CIDiagnostic = ci.Diagnostic
	if n > 3 {
		a.PValue = stats.Of(inference.PearsonPValue(r, n))
	} else {
		a.PValue = stats.Of(math.NaN())
	}
	return a
}

// etaFrom reports sqrt(eta²) and the F-test p-value, NaN when undefined.
func etaFrom(summaries []groups.Summary) (measure, p float64) {
	tbl := inference.ComputeANOVA(groups.Columns(summaries))
	e2 := tbl.Between.EtaSquared
	if math.IsNaN(e2) || e2 < 0 {
		return math.NaN(), math.NaN()
	}
	return math.Sqrt(e2), tbl.Between.PValue
}

func eta(cases []dataset.Case, predictor, response string) stats.Association {
	scan := groups.ScanCategoricalNumeric(cases, predictor, response)
	a := newAssociation(predictor, response, stats.MeasureEta, &scan.Missingness)

	m, p := etaFrom(scan.Groups.Summaries(false))
	a.Measure, a.PValue = stats.Of(m), stats.Of(p)
	m, p = etaFrom(scan.Groups.Summaries(true))
	a.MeasureInclMissing, a.PValueInclMissing = stats.Of(m), stats.Of(p)
	return a
}

func cramersV(cases []dataset.Case, x, y string) stats.Association {
	scan := groups.ScanCategoricalPair(cases, x, y)
	a := newAssociation(x, y, stats.MeasureCramersV, &scan.Missingness)

	excl := inference.ChiSquared(scan.Table.ExcludeMissing())
	a.Measure, a.PValue = stats.Of(excl.CramersV), stats.Of(excl.PValue)
	incl := inference.ChiSquared(scan.Table)
	a.MeasureInclMissing, a.PValueInclMissing = stats.Of(incl.CramersV), stats.Of(incl.PValue)
	return a
}

func (e *StatsEngine) numericPredictsCategorical(cases []dataset.Case, x, y string) stats.Association {
	if e.cfg.NPCRMode != NPCRUseEta {
		a := missingnessOnly(cases, x, dataset.KindNumeric, y, dataset.KindCategorical)
		a.MeasureType = stats.MeasureNumericPredictsCategorical
		return a
	}
	// eta with the categorical response as the grouping variable, reported in the
	// original orientation
	a := eta(cases, y, x)
	a.Predictor, a.Response = x, y
	a.NMissingX, a.NMissingY = a.NMissingY, a.NMissingX
	a.MeasureType = stats.MeasureNumericPredictsCategorical
	return a
}

func missingnessOnly(cases []dataset.Case, x string, kx dataset.Kind, y string, ky dataset.Kind) stats.Association {
	m := moments.ScanMissingness(cases, x, kx, y, ky)
	return newAssociation(x, y, "", m)
}
