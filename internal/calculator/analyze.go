package calculator

import (
	"fmt"

	"PriceWatch/internal/model"
)

// Params configures one analytics run.
type Params struct {
	Ticker  string
	Windows []int
}

// Analyze resolves the price field of t, derives the return and one SMA per
// window, and returns them with an enriched copy of t. The input table is
// not modified.
func Analyze(t *model.PriceTable, p Params) (*model.Analysis, error) {
	label, err := ResolvePriceField(t)
	if err != nil {
		return nil, err
	}
	price, err := t.Series(label)
	if err != nil {
		return nil, err
	}

	enriched := &model.PriceTable{Dates: t.Dates, Columns: make([]model.Column, len(t.Columns))}
	copy(enriched.Columns, t.Columns)

	a := &model.Analysis{
		Ticker:     p.Ticker,
		PriceLabel: label,
		Price:      price,
		Return:     ComputeReturn(price),
		Table:      enriched,
	}
	if err := enriched.AddSeries(a.Return); err != nil {
		return nil, err
	}

	for _, w := range p.Windows {
		sma, err := ComputeSMA(price, w)
		if err != nil {
			return nil, err
		}
		if err := enriched.AddSeries(sma); err != nil {
			return nil, fmt.Errorf("attach %s: %w", sma.Name, err)
		}
		a.SMAs = append(a.SMAs, sma)
	}
	return a, nil
}

// Snapshot returns the latest row at which the price and every SMA of a are defined.
func Snapshot(a *model.Analysis) (*model.Snapshot, error) {
	return LatestValidSnapshot(a.Price, a.SMAs...)
}
