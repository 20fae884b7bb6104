package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceWatch/internal/collector"
	"PriceWatch/internal/config"
	"PriceWatch/internal/model"
)

func runCLI(t *testing.T, f *collector.MockFetcher, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PRICEWATCH_TICKER", "PRICEWATCH_PROVIDER", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	cmd := newCommand(&out, func(*config.Config) (collector.Fetcher, error) { return f, nil })
	argv := append([]string{"pricewatch"}, args...)
	argv = append(argv, "--config", filepath.Join(t.TempDir(), "none.yaml"), "--start", "2024-01-01")
	err := cmd.Run(context.Background(), argv)
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	f := &collector.MockFetcher{Price: 30, Step: 0.1, Days: 200}

	out, err := runCLI(t, f, "report", "--ticker", "SI=F")
	require.NoError(t, err)
	assert.Equal(t, exitOK, exitCode(err))

	require.Len(t, f.Requests, 1)
	assert.Equal(t, "SI=F", f.Requests[0].Ticker)
	assert.Contains(t, out, "===== Price Tracker =====")
	assert.Contains(t, out, "Ticker: SI=F")
	assert.Contains(t, out, "Date:   2024-07-18")
	assert.Contains(t, out, "SMA 20:")
	assert.Contains(t, out, "SMA 50:")
	assert.Contains(t, out, "Last 5 closing prices:")
}

func TestTailCommand(t *testing.T) {
	f := &collector.MockFetcher{Price: 100, Step: 1, Days: 60}

	out, err := runCLI(t, f, "tail", "--ticker", "AAPL", "--rows", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "(Adj Close, AAPL)")
	assert.Contains(t, out, "Return")
	assert.Contains(t, out, "SMA_50")
	assert.Contains(t, out, "2024-02-29")
	assert.NotContains(t, out, "2024-02-27")
}

func TestExitCodes(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		_, err := runCLI(t, &collector.MockFetcher{Price: 10, Step: 1, Days: 30}, "report")
		require.Error(t, err)
		assert.Equal(t, exitNoData, exitCode(err))
		assert.Contains(t, err.Error(), "SMA_50")
	})

	t.Run("empty result", func(t *testing.T) {
		_, err := runCLI(t, &collector.MockFetcher{Table: model.NewPriceTable(nil)}, "report")
		assert.Equal(t, exitNoData, exitCode(err))
	})

	t.Run("fetch failure", func(t *testing.T) {
		_, err := runCLI(t, &collector.MockFetcher{Err: errors.New("dial tcp: timeout")}, "tail")
		require.Error(t, err)
		assert.Equal(t, exitUnexpected, exitCode(err))
		assert.True(t, strings.HasPrefix(err.Error(), "error downloading"))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := runCLI(t, &collector.MockFetcher{}, "report", "--provider", "bloomberg")
		assert.Equal(t, exitUnexpected, exitCode(err))
	})
}
