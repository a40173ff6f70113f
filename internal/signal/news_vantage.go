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

const sourceVantage = "alpha_vantage_sentiment"

// vantageTimeLayout is the compact timestamp the feed uses, e.g.
// "20250602T133000".
const vantageTimeLayout = "20060102T150405"

// VantageNewsClient pulls ticker news from the Alpha Vantage NEWS_SENTIMENT
// endpoint.
type VantageNewsClient struct {
	endpoint string
	apiKey   string
	limit    int
	httpc    *http.Client
}

func NewVantageNewsClient(endpoint, apiKey string, limit int, timeout time.Duration) *VantageNewsClient {
	if limit <= 0 {
		limit = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VantageNewsClient{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		limit:    limit,
		httpc:    &http.Client{Timeout: timeout},
	}
}

func (c *VantageNewsClient) Fetch(ctx context.Context, symbol string) ([]Headline, error) {
	query := url.Values{}
	query.Set("function", "NEWS_SENTIMENT")
	query.Set("tickers", strings.ToUpper(symbol))
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("vantage news: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vantage news: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vantage news: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vantage news: read body: %w", err)
	}

	feed := gjson.GetBytes(body, "feed")
	if !feed.IsArray() {
		// The endpoint reports throttling and bad keys as 200s with an
		// Information/Note field instead of a feed.
		if note := gjson.GetBytes(body, "Information").String(); note != "" {
			return nil, fmt.Errorf("vantage news: %s", note)
		}
		return nil, fmt.Errorf("vantage news: response has no feed")
	}
	var items []Headline
	for _, r := range feed.Array() {
		if len(items) >= c.limit {
			break
		}
		title := strings.TrimSpace(r.Get("title").String())
		if title == "" {
			continue
		}
		items = append(items, Headline{
			Title:     title,
			Published: reformatVantageTime(r.Get("time_published").String()),
		})
	}
	return items, nil
}

// reformatVantageTime rewrites the compact feed timestamp into the readable
// "2006-01-02 15:04:05" form. Unparseable input passes through untouched.
func reformatVantageTime(raw string) string {
	raw = strings.TrimSpace(raw)
	ts, err := time.Parse(vantageTimeLayout, raw)
	if err != nil {
		return raw
	}
	return ts.Format("2006-01-02 15:04:05")
}
