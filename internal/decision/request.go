package decision

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"minerva/internal/analysis/indicator"
	"minerva/internal/market"
	"minerva/internal/signal"
)

// Input is everything a verdict request is built from. Price is mandatory:
// the advisor refuses to reach the oracle without a live quote, and
// BuildRequest double-checks.
type Input struct {
	Symbol string

	Long     *market.Table
	LongSet  *indicator.Set
	Short    *market.Table
	ShortSet *indicator.Set

	Bundle *signal.Bundle
	Price  decimal.Decimal
}

// Request is the finished prompt pair for one oracle call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

const systemPromptTemplate = `You are a decisive stock investment strategist advising on a single US equity.
Weigh the technical tables, the headlines and the market sentiment index together; never rely on one section alone.
Apply the following methodology when forming the verdict:
%s

Answer with a single JSON object and nothing else, holding exactly these fields:
- "decision": "BUY", "SELL" or "HOLD"
- "percentage": integer conviction stake; exactly 0 when decision is HOLD, between 1 and 100 otherwise
- "reason": a concise English explanation of the verdict
- "expected_next_day_price": your numeric estimate of the next trading day's closing price`

const methodologyFallback = "(methodology text unavailable for this run; fall back to balanced technical and sentiment judgement)"

// BuildRequest assembles the deterministic prompt pair. Same input, same
// bytes; nothing time- or map-ordered leaks into the output.
func BuildRequest(in Input) (*Request, error) {
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, fmt.Errorf("build request: symbol is empty")
	}
	if in.Long == nil || in.Short == nil || in.LongSet == nil || in.ShortSet == nil {
		return nil, fmt.Errorf("build request: both tables with indicator sets are required")
	}
	if in.Bundle == nil {
		return nil, fmt.Errorf("build request: signal bundle is required")
	}
	if in.Price.IsZero() || in.Price.IsNegative() {
		return nil, fmt.Errorf("build request: spot price for %s is missing", in.Symbol)
	}

	methodology := strings.TrimSpace(in.Bundle.Methodology)
	if methodology == "" {
		methodology = methodologyFallback
	}

	longJSON, err := tableJSON(in.Long, in.LongSet)
	if err != nil {
		return nil, err
	}
	shortJSON, err := tableJSON(in.Short, in.ShortSet)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis target: %s\n\n", in.Symbol)
	fmt.Fprintf(&b, "### Current price\n%s\n\n", in.Price.String())
	fmt.Fprintf(&b, "### Daily chart, last 3 months, with indicators\n%s\n\n", longJSON)
	fmt.Fprintf(&b, "### 5-minute chart, last trading day, with indicators\n%s\n\n", shortJSON)
	writeHeadlineSection(&b, "Headlines: news search", in.Bundle.SearchNews)
	writeHeadlineSection(&b, "Headlines: ticker news feed", in.Bundle.VantageNews)
	writeSentimentSection(&b, in.Bundle)

	return &Request{
		SystemPrompt: fmt.Sprintf(systemPromptTemplate, methodology),
		UserPrompt:   strings.TrimRight(b.String(), "\n"),
	}, nil
}

func writeHeadlineSection(b *strings.Builder, label string, fetch signal.HeadlineFetch) {
	fmt.Fprintf(b, "### %s\n", label)
	switch {
	case fetch.Err != nil:
		fmt.Fprintf(b, "unavailable: %v\n", fetch.Err)
	case len(fetch.Items) == 0:
		b.WriteString("no recent headlines\n")
	default:
		for _, h := range fetch.Items {
			if h.Published != "" {
				fmt.Fprintf(b, "- [%s] %s\n", h.Published, h.Title)
			} else {
				fmt.Fprintf(b, "- %s\n", h.Title)
			}
		}
	}
	b.WriteString("\n")
}

func writeSentimentSection(b *strings.Builder, bundle *signal.Bundle) {
	b.WriteString("### Market sentiment\n")
	switch {
	case bundle.Sentiment != nil:
		fmt.Fprintf(b, "Fear & Greed index: %d (%s)\n", bundle.Sentiment.Value, bundle.Sentiment.Classification)
	case bundle.SentimentErr != nil:
		fmt.Fprintf(b, "unavailable: %v\n", bundle.SentimentErr)
	default:
		b.WriteString("unavailable\n")
	}
}
