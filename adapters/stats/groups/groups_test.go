package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvextras/domain/dataset"
	"mvextras/internal/testkit"
)

func cat(label string) Category { return Category{Label: label} }

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, MissingCategory, CategoryOf(dataset.Missing()))
	assert.Equal(t, cat("red"), CategoryOf(dataset.Text("red", dataset.EmptyAsMissing)))

	empty := CategoryOf(dataset.Text("", dataset.EmptyAsCategory))
	assert.False(t, empty.Missing)
	assert.NotEqual(t, MissingCategory, empty)
}

func TestScanCategoricalNumeric(t *testing.T) {
	ds := testkit.Columns("g", map[string]string{"c": "categorical"}, map[string][]any{
		"c": {"A", "A", "B", "B", nil, "B", "A"},
		"y": {1.0, 2.0, 10.0, 12.0, 5.0, nil, "bad"},
	}, "c", "y")

	scan := ScanCategoricalNumeric(ds.Cases, "c", "y")
	incl := scan.Groups.Summaries(true)
	require.Len(t, incl, 3)
	assert.Equal(t, cat("A"), incl[0].Category)
	assert.Equal(t, cat("B"), incl[1].Category)
	assert.Equal(t, MissingCategory, incl[2].Category)

	assert.Equal(t, 2, incl[0].Count)
	assert.InDelta(t, 1.5, incl[0].Mean, 1e-12)
	assert.InDelta(t, 0.25, incl[0].Variance, 1e-12)
	assert.Equal(t, 2, incl[1].Count)
	assert.InDelta(t, 11.0, incl[1].Mean, 1e-12)
	assert.InDelta(t, 1.0, incl[1].Variance, 1e-12)
	assert.Equal(t, 1, incl[2].Count)
	assert.InDelta(t, 0.0, incl[2].Variance, 1e-12)

	excl := scan.Groups.Summaries(false)
	require.Len(t, excl, 2)

	counts, means, variances := Columns(excl)
	assert.Equal(t, []int{2, 2}, counts)
	assert.InDeltaSlice(t, []float64{1.5, 11}, means, 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 1}, variances, 1e-12)

	assert.Equal(t, 7, scan.Missingness.Total())
	assert.Equal(t, 1, scan.Missingness.MissingX())
	assert.Equal(t, 2, scan.Missingness.MissingY())
	assert.Equal(t, 4, scan.Missingness.Complete())
}

func TestTableKeysDoNotCollide(t *testing.T) {
	tbl := NewTable()
	tbl.Add(cat("a|b"), cat("c"))
	tbl.Add(cat("a"), cat("b|c"))
	tbl.Add(cat("a"), cat("b|c"))

	assert.Equal(t, 1, tbl.Count(cat("a|b"), cat("c")))
	assert.Equal(t, 2, tbl.Count(cat("a"), cat("b|c")))
	assert.Equal(t, 0, tbl.Count(cat("a"), cat("c")))
	assert.Equal(t, 3, tbl.Total())
}

func TestExcludeMissingDropsCategoriesSeenOnlyWithMissing(t *testing.T) {
	ds := testkit.Columns("orphans", map[string]string{"x": "categorical", "y": "categorical"}, map[string][]any{
		"x": {"A", "A", "B", "B", nil, nil, "C"},
		"y": {"X", "X", "Y", "Y", "Z", "W", nil},
	}, "x", "y")

	tbl := ScanCategoricalPair(ds.Cases, "x", "y").Table
	require.Len(t, tbl.Rows, 4)
	require.Len(t, tbl.Cols, 5)

	excl := tbl.ExcludeMissing()
	assert.Equal(t, []Category{cat("A"), cat("B")}, excl.Rows)
	assert.Equal(t, []Category{cat("X"), cat("Y")}, excl.Cols)
	assert.Equal(t, 4, excl.Total())
}

func TestScanCategoricalPair(t *testing.T) {
	ds := testkit.Columns("p", map[string]string{"x": "categorical", "y": "categorical"}, map[string][]any{
		"x": {"A", "A", "B", nil, "B"},
		"y": {"X", nil, "Y", "Y", "Y"},
	}, "x", "y")

	scan := ScanCategoricalPair(ds.Cases, "x", "y")
	tbl := scan.Table
	assert.Equal(t, []Category{cat("A"), cat("B"), MissingCategory}, tbl.Rows)
	assert.Equal(t, []Category{cat("X"), MissingCategory, cat("Y")}, tbl.Cols)
	assert.Equal(t, 1, tbl.Count(cat("A"), MissingCategory))
	assert.Equal(t, 1, tbl.Count(MissingCategory, cat("Y")))
	assert.Equal(t, 5, tbl.Total())

	excl := tbl.ExcludeMissing()
	assert.Equal(t, []Category{cat("A"), cat("B")}, excl.Rows)
	assert.Equal(t, []Category{cat("X"), cat("Y")}, excl.Cols)
	assert.Equal(t, 3, excl.Total())
	assert.Equal(t, 0, excl.Count(cat("A"), cat("Y")))

	tr := tbl.Transpose()
	assert.Equal(t, tbl.Cols, tr.Rows)
	assert.Equal(t, tbl.Rows, tr.Cols)
	for _, r := range tbl.Rows {
		for _, c := range tbl.Cols {
			assert.Equal(t, tbl.Count(r, c), tr.Count(c, r))
		}
	}
}
