package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moznion/go-optional"

	"PriceWatch/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: DefaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SILVER": "SI=F",
			"XAGUSD": "SI=F",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Null entries (holidays, halted sessions) decode as nil.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GmtOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

// FetchHistory downloads daily bars in [req.Start, req.End). Columns carry
// composite (field, ticker) labels.
func (f *YahooFetcher) FetchHistory(ctx context.Context, req Request) (*model.PriceTable, error) {
	symbol := f.yahooSymbol(req.Ticker)
	q := url.Values{}
	q.Set("period1", fmt.Sprint(req.Start.Unix()))
	q.Set("period2", fmt.Sprint(req.end().Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div|split")
	q.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// Unknown tickers come back as 404 with a "No data found" chart error.
		return model.NewPriceTable(nil), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return model.NewPriceTable(nil), nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}
	loc := time.FixedZone(result.Meta.Symbol, result.Meta.GmtOffset)

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bar
		}
		bar := model.OHLCV{
			Time:     time.Unix(ts, 0).In(loc),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    *quote.Close[i],
			AdjClose: optional.None[float64](),
			Volume:   at(quote.Volume, i),
		}
		if i < len(adj) && adj[i] != nil {
			bar.AdjClose = optional.Some(*adj[i])
		}
		if req.AutoAdjust {
			var ok bool
			if bar, ok = adjustBar(bar); !ok {
				continue // no adjustment factor for this day
			}
		}
		bars = append(bars, bar)
	}

	return barsToTable(symbol, bars, tableLayout{Composite: true, AdjClose: !req.AutoAdjust}), nil
}

// adjustBar scales OHLC by adjclose/close so Close becomes the adjusted close.
// It reports false when the bar has no usable adjusted close.
func adjustBar(b model.OHLCV) (model.OHLCV, bool) {
	adj, err := b.AdjClose.Take()
	if err != nil || b.Close == 0 {
		return b, false
	}
	ratio := adj / b.Close
	b.Open *= ratio
	b.High *= ratio
	b.Low *= ratio
	b.Close = adj
	b.AdjClose = optional.None[float64]()
	return b, true
}
