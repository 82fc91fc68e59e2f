package stats

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Stat is an optional statistic.
//
// An unset Stat means the measure is not implemented or not applicable for the pair and is
// written as JSON null / SQL NULL. A set Stat may hold NaN, meaning "computed, undefined",
// which is written as the JSON string "NaN".
type Stat struct {
	v   float64
	set bool
}

// Unset returns the "not applicable" marker.
func Unset() Stat { return Stat{} }

// Of wraps a computed value, NaN included.
func Of(v float64) Stat { return Stat{v: v, set: true} }

// IsSet reports whether a value was computed.
func (s Stat) IsSet() bool { return s.set }

// IsNaN reports whether the value was computed and is undefined.
func (s Stat) IsNaN() bool { return s.set && math.IsNaN(s.v) }

// Float returns the value and whether it is set. Unset stats return NaN.
func (s Stat) Float() (float64, bool) {
	if !s.set {
		return math.NaN(), false
	}
	return s.v, true
}

// OrNaN returns the value, or NaN when unset.
func (s Stat) OrNaN() float64 {
	v, _ := s.Float()
	return v
}

func (s Stat) String() string {
	switch {
	case !s.set:
		return ""
	case math.IsInf(s.v, 1):
		return "+Inf"
	default:
		return strconv.FormatFloat(s.v, 'g', -1, 64)
	}
}

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	if math.IsNaN(s.v) || math.IsInf(s.v, 0) {
		return json.Marshal(s.String())
	}
	return json.Marshal(s.v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stat) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch r := raw.(type) {
	case nil:
		*s = Unset()
	case float64:
		*s = Of(r)
	case string:
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return fmt.Errorf("invalid stat %q: %w", r, err)
		}
		*s = Of(v)
	default:
		return fmt.Errorf("invalid stat %s", string(data))
	}
	return nil
}

// Value implements driver.Valuer. Postgres double precision accepts NaN and Infinity.
func (s Stat) Value() (driver.Value, error) {
	if !s.set {
		return nil, nil
	}
	return s.v, nil
}

// Scan implements sql.Scanner.
func (s *Stat) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Unset()
	case float64:
		*s = Of(v)
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return err
		}
		*s = Of(f)
	default:
		return fmt.Errorf("cannot scan %T into Stat", src)
	}
	return nil
}
