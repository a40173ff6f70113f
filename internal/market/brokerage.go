package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// BrokerageClient talks to the brokerage REST API. One-shot per call, no
// retries; timeouts are the caller's failure policy.
type BrokerageClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewBrokerageClient(baseURL, token string, timeout time.Duration) *BrokerageClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BrokerageClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: timeout},
	}
}

var _ Source = (*BrokerageClient)(nil)

func (c *BrokerageClient) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	body, err := c.get(ctx, fmt.Sprintf("/quotes/%s/", url.PathEscape(symbol)), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest price for %s: %w", symbol, err)
	}
	raw := gjson.GetBytes(body, "last_trade_price").String()
	if raw == "" {
		return decimal.Zero, fmt.Errorf("latest price for %s: quote has no last_trade_price", symbol)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest price for %s: bad price %q: %w", symbol, raw, err)
	}
	return price, nil
}

func (c *BrokerageClient) Historicals(ctx context.Context, symbol, interval, span string) ([]RawBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	query := url.Values{}
	query.Set("interval", interval)
	query.Set("span", span)
	query.Set("bounds", "regular")
	body, err := c.get(ctx, fmt.Sprintf("/marketdata/historicals/%s/", url.PathEscape(symbol)), query)
	if err != nil {
		return nil, fmt.Errorf("historicals for %s (%s/%s): %w", symbol, interval, span, err)
	}
	var payload struct {
		Historicals []RawBar `json:"historicals"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("historicals for %s (%s/%s): decode: %w", symbol, interval, span, err)
	}
	return payload.Historicals, nil
}

func (c *BrokerageClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
