package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// NullFloat is a float64 that may be missing. Missing values are never
// represented as zero or NaN.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat. NaN and infinities are treated as missing.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Missing returns an invalid NullFloat.
func Missing() NullFloat {
	return NullFloat{}
}

// Or returns the value, or def when missing.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// MarshalJSON writes null for missing values
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON accepts a number or null
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// NullTime is a date that may be missing.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Date returns a valid NullTime truncated to the calendar day.
func Date(t time.Time) NullTime {
	y, m, d := t.Date()
	return NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// Timestamp returns a valid NullTime that keeps the time of day, in UTC.
func Timestamp(t time.Time) NullTime {
	return NullTime{Time: t.UTC(), Valid: true}
}

// String formats the date as YYYY-MM-DD, or "" when missing.
func (n NullTime) String() string {
	if !n.Valid {
		return ""
	}
	return n.Time.Format(DateLayout)
}

// MarshalJSON writes the date as YYYY-MM-DD or null
func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String())
}

// DateLayout is the layout used whenever a date is serialised.
const DateLayout = "2006-01-02"
