package calculator

import (
	"github.com/moznion/go-optional"

	"PriceWatch/internal/model"
)

// ReturnName is the column name of the percentage return series.
const ReturnName = "Return"

// ComputeReturn returns the fractional change between each observation and
// its predecessor. The first entry is undefined, and so is any entry whose
// value or predecessor is undefined, or whose predecessor is zero.
func ComputeReturn(s model.Series) model.Series {
	out := model.Series{
		Name:   ReturnName,
		Dates:  s.Dates,
		Values: make([]optional.Option[float64], s.Len()),
	}
	for i := range out.Values {
		out.Values[i] = optional.None[float64]()
		if i == 0 {
			continue
		}
		prev, ok := s.At(i - 1)
		if !ok || prev == 0 {
			continue
		}
		cur, ok := s.At(i)
		if !ok {
			continue
		}
		out.Values[i] = optional.Some((cur - prev) / prev)
	}
	return out
}
