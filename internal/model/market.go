package model

import (
	"time"

	"github.com/moznion/go-optional"
)

// OHLCV represents a single daily bar as returned by a provider.
// AdjClose is None when the provider does not report an adjusted close.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose optional.Option[float64]
	Volume   float64
}

// Snapshot holds the latest date at which the price and every derived series
// are defined. Values follow the order of Names.
type Snapshot struct {
	Date   time.Time
	Price  float64
	Names  []string
	Values []float64
}

// Value returns the snapshot value of the named derived series.
func (s *Snapshot) Value(name string) (float64, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Analysis is the result of running the analytics over one PriceTable.
type Analysis struct {
	Ticker     string
	PriceLabel Label
	Price      Series
	Return     Series
	SMAs       []Series
	// Table is the fetched table with Return and SMA_<n> columns appended.
	Table *PriceTable
}
