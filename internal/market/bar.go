package market

import "time"

// Bar is one OHLCV observation for a fixed time interval.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume int64     `json:"volume"`
}

// Table is an ordered bar series for one symbol, one sampling interval and
// one lookback span. Treated as read-only once Normalize returns it; derived
// indicator series are kept alongside, never written back into the table.
type Table struct {
	Symbol   string
	Interval string
	Span     string
	Bars     []Bar
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Bars)
}

// Closes returns the close column as a fresh slice.
func (t *Table) Closes() []float64 {
	out := make([]float64, t.Len())
	for i, b := range t.Bars {
		out[i] = b.Close
	}
	return out
}
