package model

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
)

// Column is one labelled column of a PriceTable.
type Column struct {
	Label  Label
	Values []optional.Option[float64]
}

// PriceTable is a date-indexed table of numeric fields.
// Dates are strictly increasing; every column has one value per date.
type PriceTable struct {
	Dates   []time.Time
	Columns []Column
}

// NewPriceTable creates an empty table over the given dates.
func NewPriceTable(dates []time.Time) *PriceTable {
	return &PriceTable{Dates: dates}
}

// Len returns the number of rows.
func (t *PriceTable) Len() int { return len(t.Dates) }

// Empty reports whether the table holds no rows.
func (t *PriceTable) Empty() bool { return t == nil || len(t.Dates) == 0 }

// AddColumn appends a column. Values must align with Dates.
func (t *PriceTable) AddColumn(label Label, values []optional.Option[float64]) error {
	if len(values) != len(t.Dates) {
		return fmt.Errorf("column %s has %d values, table has %d rows", label, len(values), len(t.Dates))
	}
	t.Columns = append(t.Columns, Column{Label: label, Values: values})
	return nil
}

// AddSeries appends s as a plain-labelled column named after the series.
func (t *PriceTable) AddSeries(s Series) error {
	return t.AddColumn(PlainLabel(s.Name), s.Values)
}

// Labels returns the column labels in table order.
func (t *PriceTable) Labels() []Label {
	out := make([]Label, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// Series extracts the column with the given label.
func (t *PriceTable) Series(label Label) (Series, error) {
	for _, c := range t.Columns {
		if SameLabel(c.Label, label) {
			return Series{Name: label.String(), Dates: t.Dates, Values: c.Values}, nil
		}
	}
	return Series{}, fmt.Errorf("column %s not found", label)
}

// Tail returns a view of the last n rows. The view shares value storage.
func (t *PriceTable) Tail(n int) *PriceTable {
	if n < 0 {
		n = 0
	}
	start := len(t.Dates) - n
	if start < 0 {
		start = 0
	}
	out := &PriceTable{Dates: t.Dates[start:], Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = Column{Label: c.Label, Values: c.Values[start:]}
	}
	return out
}

// Validate checks the ordering and alignment invariants.
func (t *PriceTable) Validate() error {
	for i := 1; i < len(t.Dates); i++ {
		if !t.Dates[i].After(t.Dates[i-1]) {
			return fmt.Errorf("dates not strictly increasing at row %d (%s after %s)",
				i, t.Dates[i].Format(time.DateOnly), t.Dates[i-1].Format(time.DateOnly))
		}
	}
	for _, c := range t.Columns {
		if len(c.Values) != len(t.Dates) {
			return fmt.Errorf("column %s has %d values, table has %d rows", c.Label, len(c.Values), len(t.Dates))
		}
	}
	return nil
}
