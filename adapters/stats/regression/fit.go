package regression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mvextras/domain/core"
	"mvextras/domain/dataset"
)

// Fit is a fitted linear model.
type Fit struct {
	Response       string
	Intercept      float64
	Coefficients   []float64
	PredictorNames []string
	Selection      Selection

	RSquared    float64
	AdjRSquared float64
	Sigma       float64
	SSE         float64
	SST         float64

	DegreesFreedom     int // number of predictors
	ResidualDF         int // n - p - 1
	NObservationsUsed  int
	NObservationsTotal int

	Converged      bool
	IterationsUsed int
	Warning        string
}

// FitDataset selects numeric predictors, builds the model matrix and fits it.
func FitDataset(ds *dataset.Dataset, response string, predictors []string, opts Options) (*Fit, error) {
	if err := checkResponse(ds, response); err != nil {
		return nil, err
	}
	sel := SelectPredictors(ds, response, predictors)
	if len(sel.Used) == 0 {
		return nil, fmt.Errorf("%w: none of %v are numeric", core.ErrNoNumericPredictors, sel.Attempted)
	}
	m := BuildModelMatrix(ds.Cases, response, sel.Used)
	fit, err := FitMatrix(m, opts)
	if err != nil {
		return nil, err
	}
	fit.Selection = sel
	return fit, nil
}

// FitMatrix fits the model matrix. It fails when there are no predictors, no rows, or fewer
// rows than predictors. Non-convergence is not a failure; the fit carries a warning.
func FitMatrix(m *ModelMatrix, opts Options) (*Fit, error) {
	opts = opts.normalized()
	p := len(m.Predictors)
	n := m.Rows()
	switch {
	case p == 0:
		return nil, core.ErrNoNumericPredictors
	case n == 0:
		return nil, fmt.Errorf("%w: all %d rows have a missing or non-numeric value", core.ErrNoValidRows, m.NTotal)
	case n < p:
		return nil, fmt.Errorf("%w: %d rows for %d predictors", core.ErrInsufficientRows, n, p)
	}

	yMean := mean(m.Y)
	yc := centered(m.Y, yMean)
	means := make([]float64, p)
	xc := make([][]float64, p)
	for j, col := range m.Columns {
		means[j] = mean(col)
		xc[j] = centered(col, means[j])
	}

	sol := CoordinateDescent(xc, yc, opts)

	intercept := yMean
	for j, b := range sol.Beta {
		intercept -= means[j] * b
	}

	sse, sst := 0.0, 0.0
	for i, y := range m.Y {
		fitted := intercept
		for j, b := range sol.Beta {
			fitted += b * m.Columns[j][i]
		}
		r := y - fitted
		sse += r * r
		d := y - yMean
		sst += d * d
	}

	residualDF := n - p - 1
	fit := &Fit{
		Response:           m.Response,
		Intercept:          intercept,
		Coefficients:       sol.Beta,
		PredictorNames:     append([]string(nil), m.Predictors...),
		Selection:          Selection{Attempted: m.Predictors, Used: m.Predictors},
		SSE:                sse,
		SST:                sst,
		RSquared:           math.NaN(),
		AdjRSquared:        math.NaN(),
		Sigma:              math.NaN(),
		DegreesFreedom:     p,
		ResidualDF:         residualDF,
		NObservationsUsed:  n,
		NObservationsTotal: m.NTotal,
		Converged:          sol.Converged,
		IterationsUsed:     sol.Iterations,
	}
	if sst > 0 {
		fit.RSquared = 1 - sse/sst
		if residualDF > 0 {
			fit.AdjRSquared = 1 - (1-fit.RSquared)*float64(n-1)/float64(residualDF)
		}
	}
	if residualDF > 0 {
		fit.Sigma = math.Sqrt(sse / float64(residualDF))
	}
	if !sol.Converged {
		fit.Warning = fmt.Sprintf("did not converge after %d iterations (last max change %.3g); coefficients may be inaccurate",
			sol.Iterations, sol.MaxChange)
	}
	return fit, nil
}

// Predict evaluates the model on predictor values given in PredictorNames order.
func (f *Fit) Predict(xs []float64) float64 {
	y := f.Intercept
	for j, b := range f.Coefficients {
		y += b * xs[j]
	}
	return y
}

// Formula renders the model as "response = b0 + b1*x1 - b2*x2" at full precision.
func (f *Fit) Formula() string {
	var sb strings.Builder
	sb.WriteString(f.Response)
	sb.WriteString(" = ")
	sb.WriteString(formatCoefficient(f.Intercept))
	for j, b := range f.Coefficients {
		if b < 0 || (b == 0 && math.Signbit(b)) {
			sb.WriteString(" - ")
			b = -b
		} else {
			sb.WriteString(" + ")
		}
		sb.WriteString(formatCoefficient(b))
		sb.WriteString("*")
		sb.WriteString(f.PredictorNames[j])
	}
	return sb.String()
}

func formatCoefficient(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
