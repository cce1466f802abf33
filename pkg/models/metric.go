package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Metric is an optional float64. A metric derived from missing data or a
// non-positive denominator is absent rather than zero, so downstream
// aggregators can skip it instead of scoring it.
//
// The zero value is absent.
type Metric struct {
	value float64
	valid bool
}

// Some returns a present Metric carrying v.
func Some(v float64) Metric {
	return Metric{value: v, valid: true}
}

// None returns an absent Metric.
func None() Metric {
	return Metric{}
}

// Ratio returns num/den, absent when the denominator is zero or either
// input is absent.
func Ratio(num, den Metric) Metric {
	n, ok1 := num.Value()
	d, ok2 := den.Value()
	if !ok1 || !ok2 || d == 0 {
		return None()
	}
	return Some(n / d)
}

// Value returns the underlying value and whether it is present.
func (m Metric) Value() (float64, bool) {
	return m.value, m.valid
}

// Valid reports whether the metric is present.
func (m Metric) Valid() bool {
	return m.valid
}

// Or returns the value when present, otherwise def.
func (m Metric) Or(def float64) float64 {
	if m.valid {
		return m.value
	}
	return def
}

var nullJSON = []byte("null")

// MarshalJSON encodes a present metric as a number and an absent one as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return nullJSON, nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as absent and any number as present.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		*m = Metric{}
		return nil
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(data)), 64)
	if err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
