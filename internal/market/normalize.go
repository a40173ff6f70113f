package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawBar is the provider wire shape: numeric fields arrive as strings.
type RawBar struct {
	BeginsAt   string `json:"begins_at"`
	OpenPrice  string `json:"open_price"`
	ClosePrice string `json:"close_price"`
	HighPrice  string `json:"high_price"`
	LowPrice   string `json:"low_price"`
	Volume     string `json:"volume"`
}

// Normalize converts raw provider bars into a canonical Table. The parse is
// strict: one malformed bar fails the whole table, no partial output. The
// table invariants (finite OHLC, volume >= 0, strictly increasing timestamps,
// high/low bracketing open and close) are enforced here so every downstream
// consumer can rely on them.
func Normalize(symbol, interval, span string, raw []RawBar) (*Table, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("normalize: symbol cannot be empty")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("normalize: %s %s/%s: provider returned no bars", symbol, interval, span)
	}
	bars := make([]Bar, 0, len(raw))
	for i, r := range raw {
		bar, err := parseBar(r)
		if err != nil {
			return nil, fmt.Errorf("normalize: %s %s/%s bar #%d: %w", symbol, interval, span, i, err)
		}
		if len(bars) > 0 && !bar.Date.After(bars[len(bars)-1].Date) {
			return nil, fmt.Errorf("normalize: %s %s/%s bar #%d: timestamp %s not after previous %s",
				symbol, interval, span, i, bar.Date.Format(time.RFC3339), bars[len(bars)-1].Date.Format(time.RFC3339))
		}
		bars = append(bars, bar)
	}
	return &Table{Symbol: symbol, Interval: interval, Span: span, Bars: bars}, nil
}

func parseBar(r RawBar) (Bar, error) {
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(r.BeginsAt))
	if err != nil {
		return Bar{}, fmt.Errorf("begins_at %q: %w", r.BeginsAt, err)
	}
	open, err := parsePrice("open_price", r.OpenPrice)
	if err != nil {
		return Bar{}, err
	}
	cl, err := parsePrice("close_price", r.ClosePrice)
	if err != nil {
		return Bar{}, err
	}
	high, err := parsePrice("high_price", r.HighPrice)
	if err != nil {
		return Bar{}, err
	}
	low, err := parsePrice("low_price", r.LowPrice)
	if err != nil {
		return Bar{}, err
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(r.Volume), 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("volume %q: %w", r.Volume, err)
	}
	if volume < 0 {
		return Bar{}, fmt.Errorf("volume %d is negative", volume)
	}
	if high < math.Max(open, cl) {
		return Bar{}, fmt.Errorf("high %.4f below max(open, close) %.4f", high, math.Max(open, cl))
	}
	if low > math.Min(open, cl) {
		return Bar{}, fmt.Errorf("low %.4f above min(open, close) %.4f", low, math.Min(open, cl))
	}
	return Bar{Date: date.UTC(), Open: open, Close: cl, High: high, Low: low, Volume: volume}, nil
}

func parsePrice(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q is not finite", field, raw)
	}
	return v, nil
}
