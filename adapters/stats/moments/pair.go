package moments

import (
	"mvextras/domain/dataset"
)

// Missingness accumulates the 0/1 missingness indicators of two attributes along with the
// counts the association record reports.
type Missingness struct {
	indicators Covariance
	missingX   int
	missingY   int
	complete   int
}

// Add records one case.
func (m *Missingness) Add(missingX, missingY bool) {
	m.indicators.Add(indicator(missingX), indicator(missingY))
	if missingX {
		m.missingX++
	}
	if missingY {
		m.missingY++
	}
	if !missingX && !missingY {
		m.complete++
	}
}

func indicator(missing bool) float64 {
	if missing {
		return 1
	}
	return 0
}

// Correlation returns the correlation of the indicators, NaN if either is constant.
func (m *Missingness) Correlation() float64 { return m.indicators.Correlation() }

func (m *Missingness) Total() int { return m.indicators.N() }
func (m *Missingness) MissingX() int { return m.missingX }
func (m *Missingness) MissingY() int { return m.missingY }

// Complete returns the number of cases where neither attribute is missing.
func (m *Missingness) Complete() int { return m.complete }

// PairScan is the result of one pass over the cases for two numeric attributes.
type PairScan struct {
	Values      Covariance
	Missingness Missingness
}

// Pearson returns the correlation of the complete cases.
func (p *PairScan) Pearson() float64 { return p.Values.Correlation() }

// ScanNumericPair makes one pass over cases, reading x and y numerically.
func ScanNumericPair(cases []dataset.Case, x, y string) *PairScan {
	var scan PairScan
	for _, c := range cases {
		xv, xok := c.Value(x).AsNumber()
		yv, yok := c.Value(y).AsNumber()
		scan.Missingness.Add(!xok, !yok)
		if xok && yok {
			scan.Values.Add(xv, yv)
		}
	}
	return &scan
}

// ScanMissingness makes one pass over cases recording only missingness, each attribute
// read under its own kind.
func ScanMissingness(cases []dataset.Case, x string, xKind dataset.Kind, y string, yKind dataset.Kind) *Missingness {
	var m Missingness
	for _, c := range cases {
		m.Add(c.Value(x).IsMissing(xKind), c.Value(y).IsMissing(yKind))
	}
	return &m
}
