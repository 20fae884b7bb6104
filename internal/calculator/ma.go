package calculator

import (
	"fmt"

	"github.com/moznion/go-optional"

	"PriceWatch/internal/model"
)

// SMAName returns the column name used for a window, e.g. "SMA_50".
func SMAName(window int) string {
	return fmt.Sprintf("SMA_%d", window)
}

// ComputeSMA returns the trailing simple moving average of s over window
// observations. The first window-1 entries are undefined, as is any entry
// whose window contains an undefined value. A window longer than the series
// yields an all-undefined result.
func ComputeSMA(s model.Series, window int) (model.Series, error) {
	if window <= 0 {
		return model.Series{}, fmt.Errorf("sma %d: %w", window, ErrInvalidWindow)
	}
	out := model.Series{
		Name:   SMAName(window),
		Dates:  s.Dates,
		Values: make([]optional.Option[float64], s.Len()),
	}

	prices := make([]float64, s.Len())
	lastMissing := -1
	for i := range prices {
		v, ok := s.At(i)
		if !ok {
			lastMissing = i
		}
		prices[i] = v
		out.Values[i] = optional.None[float64]()

		start := i - window + 1
		if start < 0 || lastMissing >= start {
			continue
		}
		ma, err := CalculateSMA(prices[start:i+1], window)
		if err != nil {
			return model.Series{}, err
		}
		out.Values[i] = optional.Some(ma)
	}
	return out, nil
}

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough data for SMA calculation: have %d, need %d", len(prices), period)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
