// Package groups builds per-category summaries and contingency tables in one pass.
//
// Missing predictor values fall into a reserved missing category, so every summary comes
// in two flavours: including that category and excluding it.
package groups

import (
	"mvextras/domain/dataset"
)

// Category identifies a group. The missing category has Missing set and an empty label,
// so it never collides with a real label, including the empty string.
type Category struct {
	Label   string
	Missing bool
}

// MissingCategory is the reserved category for missing values.
var MissingCategory = Category{Missing: true}

// CategoryOf returns the category of v under the categorical reading.
func CategoryOf(v dataset.Value) Category {
	label, ok := v.AsCategory()
	if !ok {
		return MissingCategory
	}
	return Category{Label: label}
}

func (c Category) String() string {
	if c.Missing {
		return "(missing)"
	}
	return c.Label
}
