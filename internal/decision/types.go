// Package decision owns the oracle contract: the outbound request built from
// market data and signals, the JSON schema the model must answer with, and
// the strict parse of its reply.
package decision

// Action is the advisory verdict.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Record is one parsed oracle verdict. Percentage is the conviction stake:
// exactly 0 for HOLD, 1 to 100 for BUY and SELL. Parse enforces that before
// a Record ever exists, so consumers never re-check it.
type Record struct {
	Decision             Action  `json:"decision"`
	Percentage           int     `json:"percentage"`
	Reason               string  `json:"reason"`
	ExpectedNextDayPrice float64 `json:"expected_next_day_price"`
}
