package moments

import (
	"math"
	"math/rand"
	"testing"

	mstats "github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"mvextras/domain/dataset"
	"mvextras/internal/testkit"
)

func TestWelfordMatchesTwoPass(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	xs := make([]float64, 1000)
	var w Welford
	for i := range xs {
		xs[i] = 1e6 + rng.NormFloat64()
		w.Add(xs[i])
	}

	mean, err := mstats.Mean(xs)
	require.NoError(t, err)
	sampleVar, err := mstats.SampleVariance(xs)
	require.NoError(t, err)
	popVar, err := mstats.PopulationVariance(xs)
	require.NoError(t, err)

	assert.Equal(t, 1000, w.Count())
	assert.InEpsilon(t, mean, w.Mean(), 1e-12)
	assert.InEpsilon(t, sampleVar, w.SampleVariance(), 1e-9)
	assert.InEpsilon(t, popVar, w.PopulationVariance(), 1e-9)
}

func TestWelfordEmpty(t *testing.T) {
	var w Welford
	assert.True(t, math.IsNaN(w.PopulationVariance()))
	assert.True(t, math.IsNaN(w.SampleVariance()))
	w.Add(3)
	assert.Equal(t, 0.0, w.PopulationVariance())
	assert.True(t, math.IsNaN(w.SampleVariance()))
}

func TestStreamingPearsonMatchesTwoPass(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	xs := make([]float64, 2000)
	ys := make([]float64, 2000)
	var c Covariance
	for i := range xs {
		xs[i] = rng.NormFloat64()*3 + 50
		ys[i] = 0.7*xs[i] + rng.NormFloat64()
		c.Add(xs[i], ys[i])
	}

	want := stat.Correlation(xs, ys, nil)
	assert.InEpsilon(t, want, c.Correlation(), 1e-9)

	mf, err := mstats.Pearson(xs, ys)
	require.NoError(t, err)
	assert.InEpsilon(t, mf, c.Correlation(), 1e-9)

	assert.InEpsilon(t, stat.Covariance(xs, ys, nil), c.SampleCovariance(), 1e-9)
}

func TestCorrelationZeroVariance(t *testing.T) {
	var c Covariance
	for _, x := range []float64{1, 2, 3} {
		c.Add(x, 4)
	}
	assert.True(t, math.IsNaN(c.Correlation()))
}

func TestScanNumericPairPerfectLine(t *testing.T) {
	ds := testkit.Columns("line", nil, map[string][]any{
		"x": testkit.Floats(1, 2, 3, 4, 5),
		"y": testkit.Floats(2, 4, 6, 8, 10),
	}, "x", "y")

	scan := ScanNumericPair(ds.Cases, "x", "y")
	assert.InDelta(t, 1.0, scan.Pearson(), 1e-12)
	assert.Equal(t, 5, scan.Missingness.Complete())
	assert.Equal(t, 5, scan.Missingness.Total())
	assert.Equal(t, 0, scan.Missingness.MissingX())
	assert.True(t, math.IsNaN(scan.Missingness.Correlation()), "no missing values means constant indicators")
}

func TestScanNumericPairMissingness(t *testing.T) {
	ds := testkit.Columns("gaps", nil, map[string][]any{
		"x": {1.0, nil, 3.0, "n/a", 5.0, 6.0},
		"y": {2.0, nil, 5.0, "", 9.0, nil},
	}, "x", "y")

	scan := ScanNumericPair(ds.Cases, "x", "y")
	assert.Equal(t, 6, scan.Missingness.Total())
	assert.Equal(t, 2, scan.Missingness.MissingX())
	assert.Equal(t, 3, scan.Missingness.MissingY())
	assert.Equal(t, 3, scan.Missingness.Complete())

	mx := []float64{0, 1, 0, 1, 0, 0}
	my := []float64{0, 1, 0, 1, 0, 1}
	assert.InDelta(t, stat.Correlation(mx, my, nil), scan.Missingness.Correlation(), 1e-12)
	assert.InDelta(t, stat.Correlation([]float64{1, 3, 5}, []float64{2, 5, 9}, nil), scan.Pearson(), 1e-12)
}

func TestScanMissingnessUsesEachKind(t *testing.T) {
	ds := testkit.Columns("kinds", map[string]string{"c": "categorical"}, map[string][]any{
		"c": {"a", "b", nil, "7"},
		"n": {"x", 2.0, 3.0, nil},
	}, "c", "n")

	m := ScanMissingness(ds.Cases, "c", dataset.KindCategorical, "n", dataset.KindNumeric)
	assert.Equal(t, 1, m.MissingX())
	assert.Equal(t, 2, m.MissingY(), "unparseable text is missing under the numeric reading")
	assert.Equal(t, 1, m.Complete())
}

func TestGeneratedSurveySharedMissingness(t *testing.T) {
	cfg := testkit.DefaultSurveyConfig()
	cfg.MissingRate = 0.2
	ds := testkit.NewSurveyDataGenerator(cfg).Generate()

	scan := ScanNumericPair(ds.Cases, "income", "satisfaction")
	assert.InDelta(t, 1.0, scan.Missingness.Correlation(), 1e-12)
	assert.Greater(t, ScanNumericPair(ds.Cases, "age", "income").Pearson(), 0.9)
}
