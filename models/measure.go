package models

import (
	"database/sql"
	"encoding/json"
	"strconv"
)

// Measure is a numeric value that may be missing. The source table publishes
// locale-formatted text; cells that fail numeric coercion are kept as missing
// rather than collapsing to zero.
type Measure struct {
	Float64 float64
	Valid   bool
}

// NewMeasure wraps a known-good value.
func NewMeasure(v float64) Measure {
	return Measure{Float64: v, Valid: true}
}

// MarshalJSON encodes missing values as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Float64)
}

// UnmarshalJSON accepts a number or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Measure{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Measure{Float64: v, Valid: true}
	return nil
}

// String renders the value for tabular output; missing values become empty cells.
func (m Measure) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Float64, 'f', -1, 64)
}

// NullFloat64 converts to the database/sql representation.
func (m Measure) NullFloat64() sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Float64, Valid: m.Valid}
}

// MeasureFromNull converts from the database/sql representation.
func MeasureFromNull(v sql.NullFloat64) Measure {
	return Measure{Float64: v.Float64, Valid: v.Valid}
}
