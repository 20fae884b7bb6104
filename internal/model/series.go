package model

import (
	"time"

	"github.com/moznion/go-optional"
)

// Series is a single named numeric column aligned to a date index.
// Undefined entries are None, never zero.
type Series struct {
	Name   string
	Dates  []time.Time
	Values []optional.Option[float64]
}

// NewSeries builds a series from plain floats; every value is defined.
func NewSeries(name string, dates []time.Time, values []float64) Series {
	out := Series{Name: name, Dates: dates, Values: make([]optional.Option[float64], len(values))}
	for i, v := range values {
		out.Values[i] = optional.Some(v)
	}
	return out
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Defined reports whether the value at i exists.
func (s Series) Defined(i int) bool {
	return i >= 0 && i < len(s.Values) && s.Values[i].IsSome()
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if !s.Defined(i) {
		return 0, false
	}
	return s.Values[i].Unwrap(), true
}

// DefinedCount returns how many entries are defined.
func (s Series) DefinedCount() int {
	n := 0
	for _, v := range s.Values {
		if v.IsSome() {
			n++
		}
	}
	return n
}
