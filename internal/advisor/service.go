// Package advisor runs the full analysis pipeline for one symbol: market
// tables, indicators, qualitative signals, the oracle verdict and its
// persistence. One invocation, one verdict, no retries.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"minerva/internal/analysis/indicator"
	"minerva/internal/decision"
	"minerva/internal/gateway/provider"
	"minerva/internal/logger"
	"minerva/internal/market"
	"minerva/internal/notify"
	"minerva/internal/signal"
	"minerva/internal/store/ledger"
	"minerva/internal/store/runlog"
	"minerva/internal/translate"
)

// ErrPriceUnavailable marks a run aborted before the oracle because no live
// quote could be obtained. A verdict without a spot price is meaningless and
// the ledger row could not be derived, so the run stops here.
var ErrPriceUnavailable = errors.New("spot price unavailable")

// Collector gathers the qualitative signal bundle.
type Collector interface {
	Collect(ctx context.Context, symbol string) *signal.Bundle
}

// Ledger appends finished verdicts.
type Ledger interface {
	Append(ctx context.Context, symbol string, rec *decision.Record, currentPrice decimal.Decimal, at time.Time) (*ledger.Entry, error)
}

// RunLog archives oracle exchanges. Optional; nil disables archiving.
type RunLog interface {
	Record(ctx context.Context, ex *runlog.Exchange) error
}

// Outcome is one completed analysis run.
type Outcome struct {
	Symbol      string
	Price       decimal.Decimal
	Record      *decision.Record
	ReasonLocal string
	Entry       *ledger.Entry
	Bundle      *signal.Bundle
}

// Deps wires a Service. Source, Oracle and Ledger are mandatory; the rest
// degrade to no-ops when nil.
type Deps struct {
	Source     market.Source
	Collector  Collector
	Oracle     provider.Oracle
	Model      string
	Translator translate.Translator
	Ledger     Ledger
	RunLog     RunLog
	Notifier   notify.Notifier
	Now        func() time.Time
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) (*Service, error) {
	if deps.Source == nil || deps.Oracle == nil || deps.Ledger == nil {
		return nil, fmt.Errorf("advisor: source, oracle and ledger are required")
	}
	if deps.Translator == nil {
		deps.Translator = translate.Noop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{deps: deps}, nil
}

// Analyze executes one run for one symbol. Sub-fetches happen sequentially in
// a fixed order; signal failures degrade the prompt, while table, price,
// oracle, parse and ledger failures abort the run.
func (s *Service) Analyze(ctx context.Context, symbol string) (*Outcome, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("advisor: symbol is empty")
	}
	logger.Infof("analysis run started for %s", symbol)

	long, err := s.fetchTable(ctx, symbol, market.IntervalDay, market.SpanThreeMonth)
	if err != nil {
		return nil, err
	}
	short, err := s.fetchTable(ctx, symbol, market.Interval5Min, market.SpanDay)
	if err != nil {
		return nil, err
	}

	price, err := s.deps.Source.LatestPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrPriceUnavailable, symbol, err)
	}
	if price.IsZero() || price.IsNegative() {
		return nil, fmt.Errorf("%w for %s: quote %s", ErrPriceUnavailable, symbol, price)
	}

	longSet := indicator.Compute(long, indicator.DefaultLongParams())
	shortSet := indicator.Compute(short, indicator.DefaultParams())

	var bundle *signal.Bundle
	if s.deps.Collector != nil {
		bundle = s.deps.Collector.Collect(ctx, symbol)
	} else {
		bundle = &signal.Bundle{Symbol: symbol, CollectedAt: s.deps.Now().UTC()}
	}

	req, err := decision.BuildRequest(decision.Input{
		Symbol:   symbol,
		Long:     long,
		LongSet:  longSet,
		Short:    short,
		ShortSet: shortSet,
		Bundle:   bundle,
		Price:    price,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}

	raw, err := s.deps.Oracle.Verdict(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("advisor: oracle for %s: %w", symbol, err)
	}

	ex := runlog.NewExchange(symbol, s.deps.Model)
	ex.SystemPrompt = req.SystemPrompt
	ex.UserPrompt = req.UserPrompt
	ex.RawOutput = string(raw)

	rec, parseErr := decision.Parse(raw)
	if parseErr != nil {
		ex.ParseError = parseErr.Error()
		s.archive(ctx, ex)
		return nil, fmt.Errorf("advisor: %s: %w", symbol, parseErr)
	}
	ex.Verdict = datatypes.JSON(raw)
	s.archive(ctx, ex)

	reason := rec.Reason
	if localized, err := s.deps.Translator.Translate(ctx, rec.Reason); err != nil {
		logger.Warnf("translation failed for %s, keeping original reason: %v", symbol, err)
	} else {
		reason = localized
	}

	entry, err := s.deps.Ledger.Append(ctx, symbol, rec, price, s.deps.Now())
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	logger.Infof("analysis run for %s finished: %s %d%% (expected next close %.2f)",
		symbol, rec.Decision, rec.Percentage, rec.ExpectedNextDayPrice)

	if err := s.deps.Notifier.Send(ctx, summaryText(symbol, rec, reason, entry)); err != nil {
		logger.Warnf("notification failed for %s: %v", symbol, err)
	}

	return &Outcome{
		Symbol:      symbol,
		Price:       price,
		Record:      rec,
		ReasonLocal: reason,
		Entry:       entry,
		Bundle:      bundle,
	}, nil
}

func (s *Service) fetchTable(ctx context.Context, symbol, interval, span string) (*market.Table, error) {
	raw, err := s.deps.Source.Historicals(ctx, symbol, interval, span)
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	table, err := market.Normalize(symbol, interval, span, raw)
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	return table, nil
}

func (s *Service) archive(ctx context.Context, ex *runlog.Exchange) {
	if s.deps.RunLog == nil {
		return
	}
	if err := s.deps.RunLog.Record(ctx, ex); err != nil {
		logger.Warnf("runlog archive failed for %s: %v", ex.Symbol, err)
	}
}

func summaryText(symbol string, rec *decision.Record, reason string, entry *ledger.Entry) string {
	return fmt.Sprintf("%s verdict: %s %d%%\nexpected next close: %.2f (diff %+.2f)\n%s",
		symbol, rec.Decision, rec.Percentage, entry.ExpectedNextDayPrice, entry.ExpectedPriceDifference, reason)
}
