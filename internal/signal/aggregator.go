package signal

import (
	"context"
	"time"

	"minerva/internal/logger"
)

// NewsSource is one headline feed.
type NewsSource interface {
	Fetch(ctx context.Context, symbol string) ([]Headline, error)
}

// SentimentSource is the market-wide index feed.
type SentimentSource interface {
	Fetch(ctx context.Context) (*SentimentSnapshot, error)
}

// MethodologySource supplies the fixed strategy text.
type MethodologySource interface {
	Load(ctx context.Context) (string, error)
}

// Aggregator runs every qualitative source for one symbol. Sources execute
// sequentially in a fixed order; each failure is recorded in the bundle and
// logged, never escalated.
type Aggregator struct {
	search      NewsSource
	vantage     NewsSource
	sentiment   SentimentSource
	methodology MethodologySource
}

func NewAggregator(search, vantage NewsSource, sentiment SentimentSource, methodology MethodologySource) *Aggregator {
	return &Aggregator{
		search:      search,
		vantage:     vantage,
		sentiment:   sentiment,
		methodology: methodology,
	}
}

func (a *Aggregator) Collect(ctx context.Context, symbol string) *Bundle {
	bundle := &Bundle{Symbol: symbol, CollectedAt: time.Now().UTC()}

	bundle.SearchNews = fetchHeadlines(ctx, a.search, sourceSearch, symbol)
	bundle.VantageNews = fetchHeadlines(ctx, a.vantage, sourceVantage, symbol)

	if a.sentiment != nil {
		snapshot, err := a.sentiment.Fetch(ctx)
		if err != nil {
			logger.Warnf("sentiment fetch failed: %v", err)
			bundle.SentimentErr = err
		} else {
			bundle.Sentiment = snapshot
		}
	}

	if a.methodology != nil {
		text, err := a.methodology.Load(ctx)
		if err != nil {
			logger.Warnf("methodology load failed: %v", err)
			bundle.MethodologyErr = err
		} else {
			bundle.Methodology = text
		}
	}

	return bundle
}

func fetchHeadlines(ctx context.Context, src NewsSource, name, symbol string) HeadlineFetch {
	fetch := HeadlineFetch{Source: name}
	if src == nil {
		return fetch
	}
	items, err := src.Fetch(ctx, symbol)
	if err != nil {
		logger.Warnf("news source %s failed for %s: %v", name, symbol, err)
		fetch.Err = err
		return fetch
	}
	fetch.Items = items
	return fetch
}
