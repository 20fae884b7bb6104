package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PriceWatch/internal/model"
)

// ErrEmptyResult is returned when a provider answers with no rows.
var ErrEmptyResult = errors.New("no data downloaded")

// Request describes one history download.
type Request struct {
	Ticker string
	Start  time.Time
	// End is exclusive. Zero means "up to now".
	End time.Time
	// AutoAdjust folds dividends and splits into Close instead of reporting
	// a separate Adj Close column.
	AutoAdjust bool
}

// Fetcher defines the interface for downloading daily price history.
type Fetcher interface {
	FetchHistory(ctx context.Context, req Request) (*model.PriceTable, error)
	Name() string
}

// FetchError wraps a network or provider failure.
type FetchError struct {
	Provider string
	Ticker   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error downloading %s from %s: %v", e.Ticker, e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (r Request) end() time.Time {
	if r.End.IsZero() {
		return time.Now()
	}
	return r.End
}
