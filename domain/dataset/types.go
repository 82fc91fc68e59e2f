package dataset

import (
	"fmt"

	"mvextras/domain/core"
)

// Attribute describes one column of a dataset as the data platform reports it.
type Attribute struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // raw type label, classified by Classify
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

// Kind returns the classified kind of the attribute's raw type.
func (a Attribute) Kind() Kind {
	return Classify(a.Type)
}

// Case is one row: an identifier plus the values of each attribute.
// Attributes absent from Values read as missing.
type Case struct {
	ID     string           `json:"id"`
	Values map[string]Value `json:"values"`
}

// Value returns the value of the named attribute, or a missing value.
func (c Case) Value(name string) Value {
	if v, ok := c.Values[name]; ok {
		return v
	}
	return Missing()
}

// Dataset is a materialized table of cases. It is never mutated by the statistics code.
type Dataset struct {
	Name       string      `json:"name"`
	Title      string      `json:"title,omitempty"`
	Attributes []Attribute `json:"attributes"`
	Cases      []Case      `json:"cases"`
}

// DisplayName returns the title shown to users, falling back to the internal name.
func (d *Dataset) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Attribute looks up an attribute by name.
func (d *Dataset) Attribute(name string) (Attribute, error) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, nil
		}
	}
	return Attribute{}, fmt.Errorf("%w: %s", core.ErrAttributeNotFound, name)
}

// CaseCount returns the number of cases.
func (d *Dataset) CaseCount() int {
	return len(d.Cases)
}

// RawCase is the wire form of a case before ingestion.
type RawCase struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// NewCase ingests raw values under the given empty-string policy.
func NewCase(raw RawCase, policy EmptyStringPolicy) Case {
	values := make(map[string]Value, len(raw.Values))
	for name, v := range raw.Values {
		values[name] = NewValue(v, policy)
	}
	return Case{ID: raw.ID, Values: values}
}

// NewDataset builds a dataset from raw cases. Cases without an ID get a generated one.
func NewDataset(name string, attrs []Attribute, raw []RawCase, policy EmptyStringPolicy) *Dataset {
	cases := make([]Case, len(raw))
	for i, rc := range raw {
		if rc.ID == "" {
			rc.ID = core.NewID().String()
		}
		cases[i] = NewCase(rc, policy)
	}
	return &Dataset{Name: name, Attributes: attrs, Cases: cases}
}
