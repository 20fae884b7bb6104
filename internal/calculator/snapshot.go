package calculator

import (
	"math"

	"PriceWatch/internal/model"
)

// LatestValidSnapshot finds the most recent row at which price and every
// derived series are all defined and returns their values at that row.
func LatestValidSnapshot(price model.Series, derived ...model.Series) (*model.Snapshot, error) {
	for i := price.Len() - 1; i >= 0; i-- {
		p, ok := price.At(i)
		if !ok {
			continue
		}
		values := make([]float64, 0, len(derived))
		for _, d := range derived {
			v, ok := d.At(i)
			if !ok {
				break
			}
			values = append(values, v)
		}
		if len(values) != len(derived) {
			continue
		}

		names := make([]string, len(derived))
		for j, d := range derived {
			names[j] = d.Name
		}
		return &model.Snapshot{Date: price.Dates[i], Price: p, Names: names, Values: values}, nil
	}

	names := []string{price.Name}
	for _, d := range derived {
		names = append(names, d.Name)
	}
	return nil, &InsufficientHistoryError{Series: names, Rows: price.Len()}
}

// PercentDistance returns how far value sits from reference, in percent.
func PercentDistance(value, reference float64) (float64, error) {
	if reference == 0 || math.IsNaN(reference) || math.IsInf(reference, 0) {
		return 0, &DivisionUndefinedError{Reference: reference}
	}
	return (value - reference) / reference * 100, nil
}
