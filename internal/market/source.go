package market

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source exposes the market-data provider. Session establishment happens
// outside this package; implementations receive an already-authenticated
// token.
type Source interface {
	LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Historicals(ctx context.Context, symbol, interval, span string) ([]RawBar, error)
}

// Window presets for the two tables every analysis run works on.
const (
	IntervalDay    = "day"
	Interval5Min   = "5minute"
	SpanThreeMonth = "3month"
	SpanDay        = "day"
)
