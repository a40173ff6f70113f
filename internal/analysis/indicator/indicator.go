package indicator

import (
	"math"

	"minerva/internal/market"
)

// Params holds every window the engine understands. Zero values fall back to
// the classic settings.
type Params struct {
	BollingerWindow int
	BollingerWidth  float64
	RSIWindow       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	// TrendWindows adds simple moving averages on top of the Bollinger SMA.
	// Only the long/daily table carries them.
	TrendWindows []int
}

func DefaultParams() Params {
	return Params{
		BollingerWindow: 20,
		BollingerWidth:  2,
		RSIWindow:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
	}
}

// DefaultLongParams is DefaultParams plus the 10/20/60 trend averages for the
// three-month daily table.
func DefaultLongParams() Params {
	p := DefaultParams()
	p.TrendWindows = []int{10, 20, 60}
	return p
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.BollingerWindow <= 0 {
		p.BollingerWindow = d.BollingerWindow
	}
	if p.BollingerWidth <= 0 {
		p.BollingerWidth = d.BollingerWidth
	}
	if p.RSIWindow <= 0 {
		p.RSIWindow = d.RSIWindow
	}
	if p.MACDFast <= 0 {
		p.MACDFast = d.MACDFast
	}
	if p.MACDSlow <= 0 {
		p.MACDSlow = d.MACDSlow
	}
	if p.MACDSignal <= 0 {
		p.MACDSignal = d.MACDSignal
	}
	return p
}

// MovingAverage is one rolling-mean column keyed by its window.
type MovingAverage struct {
	Window int
	Values Series
}

// Set holds the derived columns for one table. Every series has exactly the
// table's row count and index order.
type Set struct {
	SMA        Series
	STD        Series
	UpperBand  Series
	LowerBand  Series
	RSI        Series
	EMAFast    Series
	EMASlow    Series
	MACD       Series
	SignalLine Series
	Histogram  Series
	Trend      []MovingAverage
}

// Compute derives the indicator set for a table. Pure: the table is not
// touched, insufficient history yields undefined leading cells rather than an
// error.
func Compute(t *market.Table, p Params) *Set {
	p = p.withDefaults()
	closes := t.Closes()

	set := &Set{}
	set.SMA = rollingMean(closes, p.BollingerWindow)
	set.STD = rollingStd(closes, p.BollingerWindow)
	set.UpperBand = combine(set.SMA, set.STD, func(m, s float64) float64 { return m + p.BollingerWidth*s })
	set.LowerBand = combine(set.SMA, set.STD, func(m, s float64) float64 { return m - p.BollingerWidth*s })
	set.RSI = rsi(closes, p.RSIWindow)
	set.EMAFast = ema(closes, p.MACDFast)
	set.EMASlow = ema(closes, p.MACDSlow)
	set.MACD = combine(set.EMAFast, set.EMASlow, func(f, s float64) float64 { return f - s })
	set.SignalLine = ema(set.MACD, p.MACDSignal)
	set.Histogram = combine(set.MACD, set.SignalLine, func(m, s float64) float64 { return m - s })
	for _, w := range p.TrendWindows {
		if w <= 0 {
			continue
		}
		set.Trend = append(set.Trend, MovingAverage{Window: w, Values: rollingMean(closes, w)})
	}
	return set
}

// rollingMean is the simple moving average: undefined until the window is
// full.
func rollingMean(xs []float64, window int) Series {
	out := undefinedSeries(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	sum := 0.0
	for i, v := range xs {
		sum += v
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingStd is the population standard deviation over the same window as
// rollingMean.
func rollingStd(xs []float64, window int) Series {
	out := undefinedSeries(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += xs[j]
		}
		mean /= float64(window)
		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := xs[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(window))
	}
	return out
}

// ema uses the recursive exponential weighting seeded with the first
// observation, so every row is defined. Undefined leading input cells (as in
// the signal line over MACD) delay the seed instead of polluting it.
func ema(xs []float64, span int) Series {
	out := undefinedSeries(len(xs))
	if span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	prev := Undefined()
	for i, v := range xs {
		if !Defined(v) {
			continue
		}
		if !Defined(prev) {
			prev = v
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// rsi computes the Relative Strength Index from rolling simple means of the
// clamped day-over-day gains and losses. When the average loss is zero the
// ratio is undefined; the engine pins the output instead of propagating the
// hole: 100 with any gain in the window, 50 on a perfectly flat window.
func rsi(closes []float64, window int) Series {
	out := undefinedSeries(len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	// The first delta lives at index 1, so the first full window ends at
	// index `window`.
	for i := window; i < len(closes); i++ {
		avgGain := 0.0
		avgLoss := 0.0
		for j := i - window + 1; j <= i; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}
		avgGain /= float64(window)
		avgLoss /= float64(window)
		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

func combine(a, b Series, op func(x, y float64) float64) Series {
	out := undefinedSeries(len(a))
	for i := range a {
		if i >= len(b) || !Defined(a[i]) || !Defined(b[i]) {
			continue
		}
		out[i] = op(a[i], b[i])
	}
	return out
}

func undefinedSeries(n int) Series {
	out := make(Series, n)
	for i := range out {
		out[i] = Undefined()
	}
	return out
}
