package calculator

import "PriceWatch/internal/model"

// Price field names in order of preference.
const (
	FieldAdjClose = "Adj Close"
	FieldClose    = "Close"
)

// PriceFields is the resolution order used by ResolvePriceField.
var PriceFields = []string{FieldAdjClose, FieldClose}

// ResolvePriceField picks the column holding the usable price.
// An adjusted close is preferred over a plain close. For each candidate name
// an exact plain label wins; otherwise the first composite label containing
// the name is taken.
func ResolvePriceField(t *model.PriceTable) (model.Label, error) {
	for _, name := range PriceFields {
		if l, ok := lookupField(t.Labels(), name); ok {
			return l, nil
		}
	}
	available := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		available[i] = c.Label.String()
	}
	return nil, &ColumnResolutionError{Wanted: PriceFields, Available: available}
}

func lookupField(labels []model.Label, name string) (model.Label, bool) {
	for _, l := range labels {
		if p, ok := l.(model.PlainLabel); ok && string(p) == name {
			return l, true
		}
	}
	for _, l := range labels {
		if c, ok := l.(model.CompositeLabel); ok && c.Has(name) {
			return l, true
		}
	}
	return nil, false
}
