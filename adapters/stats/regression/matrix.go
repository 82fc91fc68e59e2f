// Package regression fits ordinary least squares by cyclic coordinate descent on centered
// data and reconstructs the intercept afterwards.
package regression

import (
	"fmt"

	"mvextras/domain/core"
	"mvextras/domain/dataset"
)

// Selection is the outcome of filtering requested predictors to numeric attributes.
type Selection struct {
	Attempted []string
	Used      []string
	Dropped   []string // non-numeric or unknown attributes
}

// SelectPredictors keeps the predictors whose attributes are numeric, preserving order.
// The response is never used as its own predictor.
func SelectPredictors(ds *dataset.Dataset, response string, predictors []string) Selection {
	sel := Selection{Attempted: append([]string(nil), predictors...)}
	for _, name := range predictors {
		attr, err := ds.Attribute(name)
		if err != nil || attr.Kind() != dataset.KindNumeric || name == response {
			sel.Dropped = append(sel.Dropped, name)
			continue
		}
		sel.Used = append(sel.Used, name)
	}
	return sel
}

// ModelMatrix holds the complete rows for a fit in column-major order.
type ModelMatrix struct {
	Response   string
	Predictors []string
	Columns    [][]float64 // Columns[j][i] is predictor j on row i
	Y          []float64
	NTotal     int
}

// Rows returns the number of retained rows.
func (m *ModelMatrix) Rows() int { return len(m.Y) }

// Excluded returns the number of rows dropped for a missing or non-finite value.
func (m *ModelMatrix) Excluded() int { return m.NTotal - len(m.Y) }

// BuildModelMatrix reads the response and predictors numerically. A row is kept only when
// every one of them is a finite number.
func BuildModelMatrix(cases []dataset.Case, response string, predictors []string) *ModelMatrix {
	m := &ModelMatrix{
		Response:   response,
		Predictors: predictors,
		Columns:    make([][]float64, len(predictors)),
		NTotal:     len(cases),
	}
	row := make([]float64, len(predictors))
rows:
	for _, c := range cases {
		y, ok := c.Value(response).AsNumber()
		if !ok {
			continue
		}
		for j, name := range predictors {
			v, ok := c.Value(name).AsNumber()
			if !ok {
				continue rows
			}
			row[j] = v
		}
		m.Y = append(m.Y, y)
		for j := range predictors {
			m.Columns[j] = append(m.Columns[j], row[j])
		}
	}
	return m
}

func checkResponse(ds *dataset.Dataset, response string) error {
	attr, err := ds.Attribute(response)
	if err != nil {
		return err
	}
	if attr.Kind() != dataset.KindNumeric {
		return fmt.Errorf("%w: %s has type %q", core.ErrResponseNotNumeric, response, attr.Type)
	}
	return nil
}
