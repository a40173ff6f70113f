package signal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const sourceSearch = "google_news_search"

// SearchNewsClient pulls recent headlines from the Google News search proxy.
type SearchNewsClient struct {
	endpoint string
	apiKey   string
	limit    int
	httpc    *http.Client
}

func NewSearchNewsClient(endpoint, apiKey string, limit int, timeout time.Duration) *SearchNewsClient {
	if limit <= 0 {
		limit = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SearchNewsClient{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		limit:    limit,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns at most the configured number of headlines for the symbol.
// Failures are returned to the caller; the aggregator folds them into the
// bundle instead of aborting the run.
func (c *SearchNewsClient) Fetch(ctx context.Context, symbol string) ([]Headline, error) {
	query := url.Values{}
	query.Set("engine", "google_news")
	query.Set("q", symbol+" stock")
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search news: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search news: read body: %w", err)
	}

	results := gjson.GetBytes(body, "organic_results")
	if !results.IsArray() {
		return nil, fmt.Errorf("search news: response has no organic_results")
	}
	var items []Headline
	for _, r := range results.Array() {
		if len(items) >= c.limit {
			break
		}
		title := strings.TrimSpace(r.Get("title").String())
		if title == "" {
			continue
		}
		items = append(items, Headline{
			Title:     title,
			Published: strings.TrimSpace(r.Get("date").String()),
		})
	}
	return items, nil
}
