package groups

import (
	"mvextras/adapters/stats/moments"
	"mvextras/domain/dataset"
)

// Cell keys one contingency table entry.
type Cell struct {
	Row Category
	Col Category
}

// Table is a contingency table. Row and column categories keep first-seen order.
type Table struct {
	Rows   []Category
	Cols   []Category
	counts map[Cell]int
	seenR  map[Category]bool
	seenC  map[Category]bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		counts: make(map[Cell]int),
		seenR:  make(map[Category]bool),
		seenC:  make(map[Category]bool),
	}
}

// Add counts one observation.
func (t *Table) Add(row, col Category) {
	t.AddCount(row, col, 1)
}

// AddCount adds n observations to a cell. The categories are registered even when n is 0.
func (t *Table) AddCount(row, col Category, n int) {
	if !t.seenR[row] {
		t.seenR[row] = true
		t.Rows = append(t.Rows, row)
	}
	if !t.seenC[col] {
		t.seenC[col] = true
		t.Cols = append(t.Cols, col)
	}
	if n != 0 {
		t.counts[Cell{Row: row, Col: col}] += n
	}
}

// Count returns the observed count of a cell.
func (t *Table) Count(row, col Category) int {
	return t.counts[Cell{Row: row, Col: col}]
}

// Total returns the grand total.
func (t *Table) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// ExcludeMissing returns a copy without the missing row and column. A category seen only
// next to a missing partner is dropped with them.
func (t *Table) ExcludeMissing() *Table {
	out := NewTable()
	for _, r := range t.Rows {
		if r.Missing {
			continue
		}
		for _, c := range t.Cols {
			if c.Missing {
				continue
			}
			if n := t.Count(r, c); n > 0 {
				out.AddCount(r, c, n)
			}
		}
	}
	return out
}

// Transpose swaps rows and columns.
func (t *Table) Transpose() *Table {
	out := NewTable()
	for _, c := range t.Cols {
		for _, r := range t.Rows {
			out.AddCount(c, r, t.Count(r, c))
		}
	}
	return out
}

// CategoricalPairScan is the result of one pass over two categorical attributes.
type CategoricalPairScan struct {
	Table       *Table
	Missingness moments.Missingness
}

// ScanCategoricalPair builds the contingency table of x (rows) by y (columns), with the
// missing category on either axis.
func ScanCategoricalPair(cases []dataset.Case, x, y string) *CategoricalPairScan {
	scan := &CategoricalPairScan{Table: NewTable()}
	for _, c := range cases {
		row := CategoryOf(c.Value(x))
		col := CategoryOf(c.Value(y))
		scan.Missingness.Add(row.Missing, col.Missing)
		scan.Table.Add(row, col)
	}
	return scan
}
