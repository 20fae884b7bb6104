package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"PriceWatch/internal/calculator"
	"PriceWatch/internal/logger"
	"PriceWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With no Table set it generates Days daily bars on a linear trend.
type MockFetcher struct {
	Table *model.PriceTable
	Err   error
	Price float64
	Step  float64
	Days  int

	Requests []Request
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, req Request) (*model.PriceTable, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Table != nil {
		return m.Table, nil
	}
	start := req.Start
	if start.IsZero() {
		start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return barsToTable(req.Ticker, generateMockBars(start, m.Price, m.Step, m.Days),
		tableLayout{Composite: true, AdjClose: !req.AutoAdjust}), nil
}

func generateMockBars(start time.Time, basePrice, step float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice + step*float64(i)
		bars[i] = model.OHLCV{
			Time:     start.AddDate(0, 0, i),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: optional.Some(p * 0.98),
			Volume:   1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and analytics.
type Collector struct {
	Fetcher Fetcher
	Windows []int
	Logger  *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, windows []int, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Collector{Fetcher: fetcher, Windows: windows, Logger: log}
}

// Collect downloads the history described by req and runs the analytics on it.
// A provider failure is returned as *FetchError and an empty download as
// ErrEmptyResult; both are detected before any analytics run.
func (c *Collector) Collect(ctx context.Context, req Request) (*model.Analysis, error) {
	c.Logger.Info("downloading data",
		zap.String("ticker", req.Ticker),
		zap.String("provider", c.Fetcher.Name()),
		zap.String("start", req.Start.Format(time.DateOnly)),
		zap.String("end", req.end().Format(time.DateOnly)),
		zap.Bool("auto_adjust", req.AutoAdjust),
	)

	table, err := c.Fetcher.FetchHistory(ctx, req)
	if err != nil {
		return nil, &FetchError{Provider: c.Fetcher.Name(), Ticker: req.Ticker, Err: err}
	}
	if table.Empty() {
		return nil, fmt.Errorf("%w for ticker '%s' - check network/ticker/date range", ErrEmptyResult, req.Ticker)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table from %s: %w", c.Fetcher.Name(), err)
	}
	c.Logger.Debug("download complete", zap.Int("rows", table.Len()), zap.Int("columns", len(table.Columns)))

	a, err := calculator.Analyze(table, calculator.Params{Ticker: req.Ticker, Windows: c.Windows})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("price field resolved", zap.Stringer("column", a.PriceLabel))
	return a, nil
}
