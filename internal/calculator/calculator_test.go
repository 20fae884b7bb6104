package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceWatch/internal/model"
)

func dailyDates(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func constColumn(n int, v float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], n)
	for i := range out {
		out[i] = optional.Some(v)
	}
	return out
}

func tableWith(t *testing.T, labels ...model.Label) *model.PriceTable {
	t.Helper()
	tbl := model.NewPriceTable(dailyDates(3))
	for i, l := range labels {
		require.NoError(t, tbl.AddColumn(l, constColumn(3, float64(i+1))))
	}
	return tbl
}

func TestResolvePriceField(t *testing.T) {
	tests := []struct {
		name   string
		labels []model.Label
		want   model.Label
	}{
		{
			name:   "adj close preferred over close",
			labels: []model.Label{model.PlainLabel("Open"), model.PlainLabel("Close"), model.PlainLabel("Adj Close")},
			want:   model.PlainLabel("Adj Close"),
		},
		{
			name:   "close only",
			labels: []model.Label{model.PlainLabel("Open"), model.PlainLabel("Close"), model.PlainLabel("Volume")},
			want:   model.PlainLabel("Close"),
		},
		{
			name: "composite field first",
			labels: []model.Label{
				model.CompositeLabel{"Close", "SI=F"},
				model.CompositeLabel{"Adj Close", "SI=F"},
			},
			want: model.CompositeLabel{"Adj Close", "SI=F"},
		},
		{
			name: "composite ticker first",
			labels: []model.Label{
				model.CompositeLabel{"SI=F", "Open"},
				model.CompositeLabel{"SI=F", "Close"},
			},
			want: model.CompositeLabel{"SI=F", "Close"},
		},
		{
			name: "first composite match wins",
			labels: []model.Label{
				model.CompositeLabel{"Close", "SLV"},
				model.CompositeLabel{"Close", "SI=F"},
			},
			want: model.CompositeLabel{"Close", "SLV"},
		},
		{
			name: "plain close beats composite close",
			labels: []model.Label{
				model.CompositeLabel{"Close", "SI=F"},
				model.PlainLabel("Close"),
			},
			want: model.PlainLabel("Close"),
		},
		{
			name: "composite adj close beats plain close",
			labels: []model.Label{
				model.PlainLabel("Close"),
				model.CompositeLabel{"Adj Close", "AAPL"},
			},
			want: model.CompositeLabel{"Adj Close", "AAPL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePriceField(tableWith(t, tt.labels...))
			require.NoError(t, err)
			assert.True(t, model.SameLabel(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolvePriceField_Unresolvable(t *testing.T) {
	tbl := tableWith(t,
		model.CompositeLabel{"Open", "SI=F"},
		model.CompositeLabel{"Volume", "SI=F"},
		model.PlainLabel("Closing"),
	)

	_, err := ResolvePriceField(tbl)
	require.Error(t, err)

	var cre *ColumnResolutionError
	require.True(t, errors.As(err, &cre))
	assert.Equal(t, []string{"(Open, SI=F)", "(Volume, SI=F)", "Closing"}, cre.Available)
	assert.Contains(t, err.Error(), "Closing")
}

func TestComputeReturn(t *testing.T) {
	s := model.NewSeries("Close", dailyDates(3), []float64{100, 110, 99})

	r := ComputeReturn(s)
	require.Equal(t, 3, r.Len())
	assert.False(t, r.Defined(0))

	v, ok := r.At(1)
	require.True(t, ok)
	assert.InDelta(t, 0.10, v, 1e-9)

	v, ok = r.At(2)
	require.True(t, ok)
	assert.InDelta(t, -0.10, v, 1e-9)
}

func TestComputeReturn_UndefinedPropagation(t *testing.T) {
	s := model.Series{
		Name:  "Close",
		Dates: dailyDates(5),
		Values: []optional.Option[float64]{
			optional.None[float64](),
			optional.Some(10.0),
			optional.Some(0.0),
			optional.Some(5.0),
			optional.None[float64](),
		},
	}

	r := ComputeReturn(s)
	want := []bool{false, false, true, false, false}
	for i, defined := range want {
		assert.Equal(t, defined, r.Defined(i), "index %d", i)
	}
	v, _ := r.At(2)
	assert.InDelta(t, -1.0, v, 1e-12, "a drop to zero is a -100% return")

	r = ComputeReturn(model.NewSeries("Close", dailyDates(2), []float64{0, 5}))
	assert.False(t, r.Defined(1), "zero predecessor must not divide")
}

func TestComputeSMA(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9}
	s := model.NewSeries("Close", dailyDates(len(values)), values)

	for _, n := range []int{1, 2, 3, 7, len(values)} {
		sma, err := ComputeSMA(s, n)
		require.NoError(t, err)
		assert.Equal(t, SMAName(n), sma.Name)
		assert.Equal(t, len(values)-n+1, sma.DefinedCount(), "window %d", n)

		for i := 0; i < len(values); i++ {
			if i < n-1 {
				assert.False(t, sma.Defined(i), "window %d index %d", n, i)
				continue
			}
			sum := 0.0
			for _, v := range values[i-n+1 : i+1] {
				sum += v
			}
			got, ok := sma.At(i)
			require.True(t, ok)
			assert.InDelta(t, sum/float64(n), got, 1e-9)
		}
	}
}

func TestComputeSMA_WindowLongerThanSeries(t *testing.T) {
	s := model.NewSeries("Close", dailyDates(10), []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	sma, err := ComputeSMA(s, 11)
	require.NoError(t, err)
	assert.Equal(t, 10, sma.Len())
	assert.Zero(t, sma.DefinedCount())
}

func TestComputeSMA_GapInWindow(t *testing.T) {
	s := model.Series{
		Name:  "Close",
		Dates: dailyDates(6),
		Values: []optional.Option[float64]{
			optional.Some(1.0),
			optional.Some(2.0),
			optional.None[float64](),
			optional.Some(4.0),
			optional.Some(5.0),
			optional.Some(6.0),
		},
	}

	sma, err := ComputeSMA(s, 2)
	require.NoError(t, err)
	defined := []bool{false, true, false, false, true, true}
	for i, want := range defined {
		assert.Equal(t, want, sma.Defined(i), "index %d", i)
	}
	v, _ := sma.At(5)
	assert.InDelta(t, 5.5, v, 1e-9)
}

func TestComputeSMA_InvalidWindow(t *testing.T) {
	s := model.NewSeries("Close", dailyDates(3), []float64{1, 2, 3})
	for _, n := range []int{0, -5} {
		_, err := ComputeSMA(s, n)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	}
}

func TestLatestValidSnapshot(t *testing.T) {
	t.Run("exactly fifty rows", func(t *testing.T) {
		dates := dailyDates(50)
		price := model.NewSeries("Close", dates, linear(50, 100, 1))
		sma, err := ComputeSMA(price, 50)
		require.NoError(t, err)

		snap, err := LatestValidSnapshot(price, sma)
		require.NoError(t, err)
		assert.Equal(t, dates[49], snap.Date)
		assert.InDelta(t, 149, snap.Price, 1e-9)
		v, ok := snap.Value("SMA_50")
		require.True(t, ok)
		assert.InDelta(t, 124.5, v, 1e-9)
	})

	t.Run("history beyond fifty rows", func(t *testing.T) {
		dates := dailyDates(80)
		price := model.NewSeries("Close", dates, linear(80, 100, 1))
		sma, err := ComputeSMA(price, 50)
		require.NoError(t, err)

		snap, err := LatestValidSnapshot(price, sma)
		require.NoError(t, err)
		assert.Equal(t, dates[79], snap.Date)
	})

	t.Run("trailing undefined price is skipped", func(t *testing.T) {
		dates := dailyDates(4)
		price := model.Series{Name: "Close", Dates: dates, Values: []optional.Option[float64]{
			optional.Some(1.0), optional.Some(2.0), optional.Some(3.0), optional.None[float64](),
		}}
		ret := ComputeReturn(price)

		snap, err := LatestValidSnapshot(price, ret)
		require.NoError(t, err)
		assert.Equal(t, dates[2], snap.Date)
		assert.Equal(t, []string{"Return"}, snap.Names)
	})

	t.Run("insufficient history", func(t *testing.T) {
		price := model.NewSeries("Close", dailyDates(30), linear(30, 100, 1))
		sma, err := ComputeSMA(price, 50)
		require.NoError(t, err)

		_, err = LatestValidSnapshot(price, sma)
		var ihe *InsufficientHistoryError
		require.True(t, errors.As(err, &ihe))
		assert.Equal(t, []string{"Close", "SMA_50"}, ihe.Series)
		assert.Equal(t, 30, ihe.Rows)
	})
}

func TestPercentDistance(t *testing.T) {
	d, err := PercentDistance(105, 100)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-9)

	d, err = PercentDistance(95, 100)
	require.NoError(t, err)
	assert.InDelta(t, -5.0, d, 1e-9)

	_, err = PercentDistance(95, 0)
	var due *DivisionUndefinedError
	assert.True(t, errors.As(err, &due))
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
