package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EmptyStringPolicy decides what an empty string means for a categorical reading.
type EmptyStringPolicy string

const (
	// EmptyAsMissing treats "" as a missing value. This is the default.
	EmptyAsMissing EmptyStringPolicy = "missing"
	// EmptyAsCategory keeps "" as a category label of its own.
	EmptyAsCategory EmptyStringPolicy = "category"
)

// ParseEmptyStringPolicy validates a policy name.
func ParseEmptyStringPolicy(s string) (EmptyStringPolicy, error) {
	switch p := EmptyStringPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return EmptyAsMissing, nil
	case EmptyAsMissing, EmptyAsCategory:
		return p, nil
	default:
		return "", fmt.Errorf("unknown empty string policy %q", s)
	}
}

// Value is a single cell with missingness resolved at ingestion.
//
// A value has a categorical reading (a label, or missing) and a numeric reading (a finite
// number, or missing). The numeric reading is missing whenever the categorical one is, and
// also for text that does not parse to a finite number.
type Value struct {
	label    string
	number   float64
	hasLabel bool
	hasNum   bool
}

// Missing returns a value that is missing under both readings.
func Missing() Value {
	return Value{}
}

// Number returns a numeric value. Non-finite numbers are missing under the numeric reading.
func Number(f float64) Value {
	v := Value{label: strconv.FormatFloat(f, 'g', -1, 64), hasLabel: true}
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		v.number = f
		v.hasNum = true
	}
	return v
}

// Text returns a text value under the given empty-string policy.
func Text(s string, policy EmptyStringPolicy) Value {
	if s == "" {
		if policy == EmptyAsCategory {
			return Value{hasLabel: true}
		}
		return Missing()
	}
	v := Value{label: s, hasLabel: true}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		v.number = f
		v.hasNum = true
	}
	return v
}

// NewValue converts a raw value from the data platform. nil is missing; strings, numbers
// and booleans are accepted; anything else is formatted with %v and treated as text.
func NewValue(raw any, policy EmptyStringPolicy) Value {
	switch r := raw.(type) {
	case nil:
		return Missing()
	case Value:
		return r
	case string:
		return Text(r, policy)
	case float64:
		return Number(r)
	case float32:
		return Number(float64(r))
	case int:
		return Number(float64(r))
	case int64:
		return Number(float64(r))
	case int32:
		return Number(float64(r))
	case json.Number:
		return Text(r.String(), policy)
	case bool:
		// checkbox attributes: a category, never a number
		return Value{label: strconv.FormatBool(r), hasLabel: true}
	default:
		return Text(fmt.Sprintf("%v", r), policy)
	}
}

// AsNumber returns the numeric reading.
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.hasNum
}

// AsCategory returns the categorical reading.
func (v Value) AsCategory() (string, bool) {
	return v.label, v.hasLabel
}

// IsMissing reports whether the value is missing under the reading for kind.
// Other attributes use the categorical reading.
func (v Value) IsMissing(kind Kind) bool {
	if kind == KindNumeric {
		return !v.hasNum
	}
	return !v.hasLabel
}

// String renders the value for display; missing values render as the empty string.
func (v Value) String() string {
	return v.label
}

// MarshalJSON writes missing values as null, numbers as numbers and other values as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.hasLabel:
		return []byte("null"), nil
	case v.hasNum && v.label == strconv.FormatFloat(v.number, 'g', -1, 64):
		return json.Marshal(v.number)
	default:
		return json.Marshal(v.label)
	}
}

// UnmarshalJSON reads a raw JSON cell with the default empty-string policy.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = NewValue(raw, EmptyAsMissing)
	return nil
}
