package decision

import (
	"encoding/json"
	"fmt"
	"time"

	"minerva/internal/analysis/indicator"
	"minerva/internal/market"
)

// tablePayload is the columnar projection of one table plus its indicator
// set. Struct field order fixes the column order in the emitted JSON, which
// keeps BuildRequest byte-for-byte reproducible for identical inputs.
type tablePayload struct {
	Symbol   string   `json:"symbol"`
	Interval string   `json:"interval"`
	Span     string   `json:"span"`
	Date     []string `json:"date"`

	Open   []float64 `json:"open"`
	Close  []float64 `json:"close"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Volume []int64   `json:"volume"`

	SMA        indicator.Series `json:"sma_20"`
	STD        indicator.Series `json:"std_20"`
	UpperBand  indicator.Series `json:"upper_band"`
	LowerBand  indicator.Series `json:"lower_band"`
	RSI        indicator.Series `json:"rsi_14"`
	MACD       indicator.Series `json:"macd"`
	SignalLine indicator.Series `json:"signal_line"`
	Histogram  indicator.Series `json:"histogram"`

	MA10 indicator.Series `json:"ma_10,omitempty"`
	MA20 indicator.Series `json:"ma_20,omitempty"`
	MA60 indicator.Series `json:"ma_60,omitempty"`
}

// tableJSON renders a table with its derived columns. Undefined indicator
// cells come out as null, never zero.
func tableJSON(t *market.Table, set *indicator.Set) ([]byte, error) {
	p := tablePayload{
		Symbol:   t.Symbol,
		Interval: t.Interval,
		Span:     t.Span,
	}
	p.Date = make([]string, t.Len())
	p.Open = make([]float64, t.Len())
	p.Close = make([]float64, t.Len())
	p.High = make([]float64, t.Len())
	p.Low = make([]float64, t.Len())
	p.Volume = make([]int64, t.Len())
	for i, b := range t.Bars {
		p.Date[i] = b.Date.UTC().Format(time.RFC3339)
		p.Open[i] = b.Open
		p.Close[i] = b.Close
		p.High[i] = b.High
		p.Low[i] = b.Low
		p.Volume[i] = b.Volume
	}
	p.SMA = set.SMA
	p.STD = set.STD
	p.UpperBand = set.UpperBand
	p.LowerBand = set.LowerBand
	p.RSI = set.RSI
	p.MACD = set.MACD
	p.SignalLine = set.SignalLine
	p.Histogram = set.Histogram
	for _, ma := range set.Trend {
		switch ma.Window {
		case 10:
			p.MA10 = ma.Values
		case 20:
			p.MA20 = ma.Values
		case 60:
			p.MA60 = ma.Values
		}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("serialize %s %s/%s table: %w", t.Symbol, t.Interval, t.Span, err)
	}
	return raw, nil
}
