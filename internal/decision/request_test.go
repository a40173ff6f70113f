package decision

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"minerva/internal/analysis/indicator"
	"minerva/internal/market"
	"minerva/internal/signal"
)

func fixtureInput(t *testing.T) Input {
	t.Helper()
	base := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	mkTable := func(interval, span string, n int, step time.Duration) *market.Table {
		bars := make([]market.Bar, n)
		for i := range bars {
			c := 100 + float64(i)
			bars[i] = market.Bar{Date: base.Add(time.Duration(i) * step), Open: c, Close: c, High: c + 1, Low: c - 1, Volume: 500}
		}
		return &market.Table{Symbol: "NVDA", Interval: interval, Span: span, Bars: bars}
	}
	long := mkTable(market.IntervalDay, market.SpanThreeMonth, 65, 24*time.Hour)
	short := mkTable(market.Interval5Min, market.SpanDay, 30, 5*time.Minute)
	return Input{
		Symbol:   "NVDA",
		Long:     long,
		LongSet:  indicator.Compute(long, indicator.DefaultLongParams()),
		Short:    short,
		ShortSet: indicator.Compute(short, indicator.DefaultParams()),
		Bundle: &signal.Bundle{
			Symbol:      "NVDA",
			SearchNews:  signal.HeadlineFetch{Items: []signal.Headline{{Title: "Nvidia up", Published: "2025-06-02"}}},
			VantageNews: signal.HeadlineFetch{Err: fmt.Errorf("feed timeout")},
			Sentiment:   &signal.SentimentSnapshot{Value: 61, Classification: "Greed"},
			Methodology: "Prefer trend continuation over reversal bets.",
		},
		Price: decimal.RequireFromString("187.43"),
	}
}

func TestBuildRequestIsDeterministic(t *testing.T) {
	in := fixtureInput(t)
	first, err := BuildRequest(in)
	require.NoError(t, err)
	second, err := BuildRequest(in)
	require.NoError(t, err)
	assert.Equal(t, first.SystemPrompt, second.SystemPrompt)
	assert.Equal(t, first.UserPrompt, second.UserPrompt)
}

func TestBuildRequestSections(t *testing.T) {
	req, err := BuildRequest(fixtureInput(t))
	require.NoError(t, err)

	assert.Contains(t, req.SystemPrompt, "Prefer trend continuation over reversal bets.")
	assert.Contains(t, req.SystemPrompt, `"percentage"`)

	assert.Contains(t, req.UserPrompt, "### Current price\n187.43")
	assert.Contains(t, req.UserPrompt, "### Daily chart, last 3 months")
	assert.Contains(t, req.UserPrompt, "### 5-minute chart, last trading day")
	assert.Contains(t, req.UserPrompt, "- [2025-06-02] Nvidia up")
	assert.Contains(t, req.UserPrompt, "unavailable: feed timeout")
	assert.Contains(t, req.UserPrompt, "Fear & Greed index: 61 (Greed)")
}

func TestBuildRequestFallsBackWhenMethodologyMissing(t *testing.T) {
	in := fixtureInput(t)
	in.Bundle.Methodology = ""
	req, err := BuildRequest(in)
	require.NoError(t, err)
	assert.Contains(t, req.SystemPrompt, "methodology text unavailable")
}

func TestBuildRequestRequiresPrice(t *testing.T) {
	in := fixtureInput(t)
	in.Price = decimal.Zero
	_, err := BuildRequest(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spot price")
}

func TestTablePayloadColumns(t *testing.T) {
	in := fixtureInput(t)
	raw, err := tableJSON(in.Long, in.LongSet)
	require.NoError(t, err)

	assert.Equal(t, "NVDA", gjson.GetBytes(raw, "symbol").String())
	assert.Equal(t, int64(65), gjson.GetBytes(raw, "close.#").Int())
	assert.Equal(t, int64(65), gjson.GetBytes(raw, "rsi_14.#").Int())
	// Leading cells of windowed indicators serialize as null, not 0.
	assert.Equal(t, gjson.Null, gjson.GetBytes(raw, "sma_20.0").Type)
	assert.True(t, gjson.GetBytes(raw, "sma_20.19").Exists())
	assert.NotEqual(t, gjson.Null, gjson.GetBytes(raw, "sma_20.19").Type)
	assert.Equal(t, int64(65), gjson.GetBytes(raw, "ma_60.#").Int())

	// The intraday table omits the trend averages entirely.
	shortRaw, err := tableJSON(in.Short, in.ShortSet)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(shortRaw, "ma_10").Exists())
}
