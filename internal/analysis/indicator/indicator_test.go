package indicator

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/internal/market"
)

func tableFromCloses(t *testing.T, closes []float64) *market.Table {
	t.Helper()
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			Close:  c,
			High:   c,
			Low:    c,
			Volume: 1000,
		}
	}
	return &market.Table{Symbol: "TEST", Interval: market.IntervalDay, Span: market.SpanThreeMonth, Bars: bars}
}

func TestRollingMeanWindowTwo(t *testing.T) {
	out := rollingMean([]float64{10, 12, 11}, 2)
	require.Len(t, out, 3)
	assert.False(t, Defined(out[0]))
	assert.InDelta(t, 11.0, out[1], 1e-12)
	assert.InDelta(t, 11.5, out[2], 1e-12)
}

func TestRollingMeanMatchesTalib(t *testing.T) {
	closes := []float64{44.3, 44.1, 44.8, 45.2, 44.9, 45.6, 46.1, 45.8, 46.3, 46.0, 46.5, 47.1, 46.9, 47.4}
	got := rollingMean(closes, 5)
	want := talib.Sma(closes, 5)
	for i := range closes {
		if i < 4 {
			assert.False(t, Defined(got[i]), "index %d should be undefined", i)
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

func TestRollingStdIsPopulation(t *testing.T) {
	out := rollingStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.Len(t, out, 8)
	// Known population standard deviation of this set is exactly 2.
	assert.InDelta(t, 2.0, out[7], 1e-12)
	for i := 0; i < 7; i++ {
		assert.False(t, Defined(out[i]))
	}
}

func TestBollingerBandsBracketTheMean(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 3*math.Sin(float64(i)/3)
	}
	set := Compute(tableFromCloses(t, closes), DefaultParams())
	for i := 19; i < len(closes); i++ {
		require.True(t, Defined(set.SMA[i]))
		assert.GreaterOrEqual(t, set.UpperBand[i], set.SMA[i])
		assert.LessOrEqual(t, set.LowerBand[i], set.SMA[i])
		assert.InDelta(t, set.SMA[i]+2*set.STD[i], set.UpperBand[i], 1e-9)
		assert.InDelta(t, set.SMA[i]-2*set.STD[i], set.LowerBand[i], 1e-9)
	}
	for i := 0; i < 19; i++ {
		assert.False(t, Defined(set.UpperBand[i]))
		assert.False(t, Defined(set.LowerBand[i]))
	}
}

func TestRSIStaysInRange(t *testing.T) {
	closes := []float64{
		100, 101.5, 99.8, 102.3, 101.1, 103.4, 102.7, 104.2, 103.9, 105.5,
		104.8, 106.1, 105.4, 107.0, 106.2, 108.3, 107.5, 109.1, 108.4, 110.2,
	}
	out := rsi(closes, 14)
	defined := 0
	for i, v := range out {
		if i < 14 {
			assert.False(t, Defined(v), "index %d should be undefined", i)
			continue
		}
		require.True(t, Defined(v))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
		defined++
	}
	assert.Equal(t, len(closes)-14, defined)
}

func TestRSIMonotoneRally(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := rsi(closes, 14)
	assert.InDelta(t, 100.0, out[19], 1e-12)
}

func TestRSIFlatWindow(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	out := rsi(closes, 14)
	assert.InDelta(t, 50.0, out[19], 1e-12)
}

func TestEMASeedsWithFirstObservation(t *testing.T) {
	closes := []float64{10, 20, 30}
	out := ema(closes, 9)
	alpha := 2.0 / 10.0
	assert.InDelta(t, 10.0, out[0], 1e-12)
	assert.InDelta(t, alpha*20+(1-alpha)*10, out[1], 1e-12)
	assert.InDelta(t, alpha*30+(1-alpha)*out[1], out[2], 1e-12)
}

func TestMACDHistogramIdentity(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 200 + 10*math.Cos(float64(i)/5) + float64(i)*0.3
	}
	set := Compute(tableFromCloses(t, closes), DefaultParams())
	for i := range closes {
		require.True(t, Defined(set.MACD[i]), "index %d", i)
		require.True(t, Defined(set.SignalLine[i]), "index %d", i)
		assert.InDelta(t, set.MACD[i]-set.SignalLine[i], set.Histogram[i], 1e-9, "index %d", i)
	}
}

func TestTrendAveragesOnlyWhenRequested(t *testing.T) {
	closes := make([]float64, 70)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	table := tableFromCloses(t, closes)

	short := Compute(table, DefaultParams())
	assert.Empty(t, short.Trend)

	long := Compute(table, DefaultLongParams())
	require.Len(t, long.Trend, 3)
	assert.Equal(t, 10, long.Trend[0].Window)
	assert.Equal(t, 20, long.Trend[1].Window)
	assert.Equal(t, 60, long.Trend[2].Window)
	for _, ma := range long.Trend {
		require.Len(t, ma.Values, len(closes))
		assert.False(t, Defined(ma.Values[ma.Window-2]))
		assert.True(t, Defined(ma.Values[ma.Window-1]))
	}
}

func TestShortHistoryYieldsUndefinedNotError(t *testing.T) {
	set := Compute(tableFromCloses(t, []float64{10, 11, 12}), DefaultParams())
	require.Len(t, set.SMA, 3)
	for i := range set.SMA {
		assert.False(t, Defined(set.SMA[i]))
		assert.False(t, Defined(set.RSI[i]))
		// EMA based columns are defined from the first row.
		assert.True(t, Defined(set.MACD[i]))
	}
}

func TestSeriesMarshalEmitsNulls(t *testing.T) {
	s := Series{Undefined(), 11, 11.5}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[null, 11, 11.5]`, string(raw))
}

func TestSeriesLastSkipsUndefined(t *testing.T) {
	s := Series{1, 2, Undefined()}
	assert.InDelta(t, 2.0, s.Last(), 1e-12)
	assert.Equal(t, 0, s.FirstDefined())
	assert.False(t, Defined(Series{Undefined()}.Last()))
}
