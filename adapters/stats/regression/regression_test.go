package regression

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"mvextras/domain/core"
	"mvextras/internal/testkit"
)

func TestFitPerfectLine(t *testing.T) {
	ds := testkit.Columns("line", nil, map[string][]any{
		"x": testkit.Floats(1, 2, 3, 4, 5),
		"y": testkit.Floats(8, 11, 14, 17, 20),
	}, "x", "y")

	fit, err := FitDataset(ds, "y", []string{"x"}, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 5.0, fit.Intercept, 1e-12)
	require.Len(t, fit.Coefficients, 1)
	assert.InDelta(t, 3.0, fit.Coefficients[0], 1e-12)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
	assert.True(t, fit.Converged)
	assert.Equal(t, 1, fit.IterationsUsed)
	assert.Empty(t, fit.Warning)
	assert.Equal(t, "y = 5 + 3*x", fit.Formula())
	assert.Equal(t, 1, fit.DegreesFreedom)
	assert.Equal(t, 3, fit.ResidualDF)
	assert.InDelta(t, 0.0, fit.Sigma, 1e-12)
}

func TestFitSingleSweepIsExactForOnePredictor(t *testing.T) {
	ds := testkit.Columns("line", nil, map[string][]any{
		"x": testkit.Floats(1, 2, 3, 4, 5),
		"y": testkit.Floats(8, 11, 14, 17, 20),
	}, "x", "y")

	fit, err := FitDataset(ds, "y", []string{"x"}, Options{MaxIterations: 1, Tolerance: 1e-6})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fit.Coefficients[0], 1e-12)
	assert.InDelta(t, 5.0, fit.Intercept, 1e-12)
	assert.True(t, fit.Converged)
	assert.Equal(t, 1, fit.IterationsUsed)
	assert.Empty(t, fit.Warning)
}

func TestFitNegativeCoefficientFormula(t *testing.T) {
	ds := testkit.Columns("down", nil, map[string][]any{
		"x": testkit.Floats(1, 2, 3, 4, 5),
		"y": testkit.Floats(8, 6, 4, 2, 0),
	}, "x", "y")

	fit, err := FitDataset(ds, "y", []string{"x"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "y = 10 - 2*x", fit.Formula())
}

func syntheticMatrix(n int, seed int64) *ModelMatrix {
	rng := rand.New(rand.NewSource(seed))
	m := &ModelMatrix{
		Response:   "y",
		Predictors: []string{"a", "b", "c"},
		Columns:    make([][]float64, 3),
		NTotal:     n,
	}
	for i := 0; i < n; i++ {
		a := rng.NormFloat64()
		b := rng.NormFloat64() * 2
		c := rng.Float64() * 10
		m.Columns[0] = append(m.Columns[0], a)
		m.Columns[1] = append(m.Columns[1], b)
		m.Columns[2] = append(m.Columns[2], c)
		m.Y = append(m.Y, 1.5+2*a-0.5*b+0.25*c+rng.NormFloat64()*0.1)
	}
	return m
}

func TestFitMatchesClosedFormOLS(t *testing.T) {
	m := syntheticMatrix(300, 5)
	fit, err := FitMatrix(m, DefaultOptions())
	require.NoError(t, err)
	require.True(t, fit.Converged)
	assert.LessOrEqual(t, fit.IterationsUsed, 50)

	n := m.Rows()
	design := mat.NewDense(n, 4, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < 3; j++ {
			design.Set(i, j+1, m.Columns[j][i])
		}
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(design, mat.NewVecDense(n, append([]float64(nil), m.Y...))))

	assert.InDelta(t, want.AtVec(0), fit.Intercept, 1e-4)
	for j := 0; j < 3; j++ {
		assert.InDelta(t, want.AtVec(j+1), fit.Coefficients[j], 1e-4)
	}
}

func TestFitResidualsRoundTrip(t *testing.T) {
	m := syntheticMatrix(200, 9)
	fit, err := FitMatrix(m, DefaultOptions())
	require.NoError(t, err)

	sumResid, sse := 0.0, 0.0
	for i, y := range m.Y {
		r := y - fit.Predict([]float64{m.Columns[0][i], m.Columns[1][i], m.Columns[2][i]})
		sumResid += r
		sse += r * r
	}
	assert.InDelta(t, 0.0, sumResid/float64(m.Rows()), 1e-6)
	assert.InEpsilon(t, sse, fit.SSE, 1e-9)
	assert.InDelta(t, 1-fit.SSE/fit.SST, fit.RSquared, 1e-12)
	assert.InDelta(t, math.Sqrt(fit.SSE/float64(m.Rows()-4)), fit.Sigma, 1e-12)
	assert.InDelta(t, 1-(1-fit.RSquared)*float64(m.Rows()-1)/float64(m.Rows()-4), fit.AdjRSquared, 1e-12)
}

func TestFitNonConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := &ModelMatrix{Response: "y", Predictors: []string{"a", "b"}, Columns: make([][]float64, 2), NTotal: 100}
	for i := 0; i < 100; i++ {
		a := rng.NormFloat64()
		m.Columns[0] = append(m.Columns[0], a)
		m.Columns[1] = append(m.Columns[1], a+rng.NormFloat64()*0.01)
		m.Y = append(m.Y, a+rng.NormFloat64())
	}

	fit, err := FitMatrix(m, Options{MaxIterations: 3, Tolerance: 1e-9})
	require.NoError(t, err, "non-convergence still returns a fit")
	assert.False(t, fit.Converged)
	assert.Equal(t, 3, fit.IterationsUsed)
	assert.Contains(t, fit.Warning, "did not converge")
}

func TestFitConstantColumnLeftAlone(t *testing.T) {
	ds := testkit.Columns("const", nil, map[string][]any{
		"x": testkit.Floats(1, 2, 3, 4, 5),
		"k": testkit.Floats(7, 7, 7, 7, 7),
		"y": testkit.Floats(3, 5, 7, 9, 11),
	}, "x", "k", "y")

	fit, err := FitDataset(ds, "y", []string{"x", "k"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.0, fit.Coefficients[1])
	assert.InDelta(t, 2.0, fit.Coefficients[0], 1e-12)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-12)
}

func TestFitDropsNonNumericPredictorsAndRows(t *testing.T) {
	ds := testkit.Columns("mixed", map[string]string{"g": "categorical"}, map[string][]any{
		"x": {1.0, 2.0, nil, 4.0, 5.0, 6.0},
		"g": {"a", "b", "a", "b", "a", "b"},
		"y": {2.0, 4.0, 6.0, "oops", 10.0, 12.0},
	}, "x", "g", "y")

	fit, err := FitDataset(ds, "y", []string{"x", "g", "nope"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "g", "nope"}, fit.Selection.Attempted)
	assert.Equal(t, []string{"x"}, fit.Selection.Used)
	assert.Equal(t, []string{"g", "nope"}, fit.Selection.Dropped)
	assert.Equal(t, 4, fit.NObservationsUsed)
	assert.Equal(t, 6, fit.NObservationsTotal)
	assert.InDelta(t, 2.0, fit.Coefficients[0], 1e-12)
}

func TestFitFailures(t *testing.T) {
	ds := testkit.Columns("bad", map[string]string{"g": "categorical"}, map[string][]any{
		"a": {1.0, nil},
		"b": {nil, 2.0},
		"c": {1.0, 2.0},
		"d": {3.0, 1.0},
		"e": {5.0, 9.0},
		"g": {"x", "y"},
		"y": {1.0, 2.0},
	}, "a", "b", "c", "d", "e", "g", "y")

	_, err := FitDataset(ds, "y", []string{"g"}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrNoNumericPredictors)

	_, err = FitDataset(ds, "y", []string{"a", "b"}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrNoValidRows)

	_, err = FitDataset(ds, "y", []string{"c", "d", "e"}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrInsufficientRows)

	_, err = FitDataset(ds, "g", []string{"c"}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrResponseNotNumeric)

	_, err = FitDataset(ds, "missing", []string{"c"}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrAttributeNotFound)
}
