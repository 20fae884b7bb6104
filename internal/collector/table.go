package collector

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"PriceWatch/internal/model"
)

// Column fields in provider order.
var barFields = []string{"Adj Close", "Close", "High", "Low", "Open", "Volume"}

// tableLayout controls how bars are laid out as columns.
type tableLayout struct {
	// Composite labels columns as (field, ticker) instead of field alone.
	Composite bool
	// AdjClose emits the Adj Close column.
	AdjClose bool
}

// barsToTable sorts bars by day, keeps the last bar seen for each day and
// lays them out as a PriceTable.
func barsToTable(ticker string, bars []model.OHLCV, layout tableLayout) *model.PriceTable {
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	for i := range sorted {
		sorted[i].Time = day(sorted[i].Time)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	deduped := sorted[:0]
	for _, b := range sorted {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	dates := make([]time.Time, len(deduped))
	for i, b := range deduped {
		dates[i] = b.Time
	}
	t := model.NewPriceTable(dates)

	for _, field := range barFields {
		if field == "Adj Close" && !layout.AdjClose {
			continue
		}
		values := make([]optional.Option[float64], len(deduped))
		for i, b := range deduped {
			values[i] = barField(b, field)
		}
		var label model.Label = model.PlainLabel(field)
		if layout.Composite {
			label = model.CompositeLabel{field, ticker}
		}
		// Lengths always match the date index.
		_ = t.AddColumn(label, values)
	}
	return t
}

func barField(b model.OHLCV, field string) optional.Option[float64] {
	switch field {
	case "Adj Close":
		return b.AdjClose
	case "Close":
		return optional.Some(b.Close)
	case "High":
		return optional.Some(b.High)
	case "Low":
		return optional.Some(b.Low)
	case "Open":
		return optional.Some(b.Open)
	default:
		return optional.Some(b.Volume)
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
