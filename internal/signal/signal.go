// Package signal gathers the qualitative context for an analysis run:
// headlines from two independent news feeds, the market sentiment index and
// the fixed methodology text. Every source is non-fatal; a failed fetch is
// carried as a typed result so the run can continue and the prompt can say
// "unavailable" instead of silently dropping a section.
package signal

import "time"

// Headline is one news item reduced to what the oracle prompt needs.
type Headline struct {
	Title     string `json:"title"`
	Published string `json:"published"`
}

// HeadlineFetch is the outcome of one news source. Err and Items are
// mutually exclusive in practice, but consumers must tolerate both being set.
type HeadlineFetch struct {
	Source string
	Items  []Headline
	Err    error
}

func (f HeadlineFetch) OK() bool { return f.Err == nil }

// SentimentSnapshot is the market-wide fear/greed reading.
type SentimentSnapshot struct {
	Value          int
	Classification string
	UpdatedAt      time.Time
}

// Bundle is everything Collect produced for one symbol. Fatal concerns
// (prices, tables) live elsewhere; a Bundle is always usable as is.
type Bundle struct {
	Symbol      string
	CollectedAt time.Time

	SearchNews  HeadlineFetch
	VantageNews HeadlineFetch

	Sentiment    *SentimentSnapshot
	SentimentErr error

	Methodology    string
	MethodologyErr error
}
