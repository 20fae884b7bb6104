package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"PriceWatch/internal/model"
)

// PolygonFetcher implements Fetcher using Polygon.io daily aggregates.
// Polygon reports either raw or adjusted bars per request, so without
// AutoAdjust the adjusted bars are fetched separately to fill Adj Close.
// Tables carry plain labels.
type PolygonFetcher struct {
	client *polygon.Client
}

// NewPolygonFetcher creates a fetcher authenticated with apiKey.
func NewPolygonFetcher(apiKey string) *PolygonFetcher {
	return &PolygonFetcher{client: polygon.New(apiKey)}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// FetchHistory downloads one-day aggregates in [req.Start, req.End).
func (f *PolygonFetcher) FetchHistory(ctx context.Context, req Request) (*model.PriceTable, error) {
	aggs, err := f.listAggs(ctx, req, req.AutoAdjust)
	if err != nil {
		return nil, err
	}
	bars := aggsToBars(aggs)
	if !req.AutoAdjust {
		adjusted, err := f.listAggs(ctx, req, true)
		if err != nil {
			return nil, err
		}
		bars = withAdjClose(bars, adjusted)
	}
	return barsToTable(req.Ticker, bars, tableLayout{AdjClose: !req.AutoAdjust}), nil
}

func (f *PolygonFetcher) listAggs(ctx context.Context, req Request, adjusted bool) ([]models.Agg, error) {
	order := models.Asc
	limit := 50000
	params := models.ListAggsParams{
		Ticker:     req.Ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(req.Start),
		To:         models.Millis(req.end().Add(-time.Millisecond)),
		Adjusted:   &adjusted,
		Order:      &order,
		Limit:      &limit,
	}

	iter := f.client.ListAggs(ctx, &params)
	var aggs []models.Agg
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon list aggs (adjusted=%t): %w", adjusted, err)
	}
	return aggs, nil
}

func aggsToBars(aggs []models.Agg) []model.OHLCV {
	bars := make([]model.OHLCV, len(aggs))
	for i, a := range aggs {
		bars[i] = model.OHLCV{
			Time:     time.Time(a.Timestamp).UTC(),
			Open:     a.Open,
			High:     a.High,
			Low:      a.Low,
			Close:    a.Close,
			AdjClose: optional.None[float64](),
			Volume:   a.Volume,
		}
	}
	return bars
}

// withAdjClose sets each bar's AdjClose to the adjusted close of the same
// day. Days missing from adjusted keep an undefined AdjClose.
func withAdjClose(bars []model.OHLCV, adjusted []models.Agg) []model.OHLCV {
	byDay := make(map[time.Time]float64, len(adjusted))
	for _, a := range adjusted {
		byDay[day(time.Time(a.Timestamp).UTC())] = a.Close
	}
	for i := range bars {
		if c, ok := byDay[day(bars[i].Time)]; ok {
			bars[i].AdjClose = optional.Some(c)
		}
	}
	return bars
}
