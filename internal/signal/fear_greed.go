package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// FearGreedClient reads the alternative.me fear and greed index. The reading
// is market-wide, not per symbol.
type FearGreedClient struct {
	endpoint string
	httpc    *http.Client
}

func NewFearGreedClient(endpoint string, timeout time.Duration) *FearGreedClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FearGreedClient{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

func (c *FearGreedClient) Fetch(ctx context.Context) (*SentimentSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fear greed index: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fear greed index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fear greed index: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fear greed index: read body: %w", err)
	}

	var payload fngResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("fear greed index: decode: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("fear greed index: empty data")
	}
	entry := payload.Data[0]
	value, err := strconv.Atoi(entry.Value)
	if err != nil {
		return nil, fmt.Errorf("fear greed index: bad value %q: %w", entry.Value, err)
	}
	snapshot := &SentimentSnapshot{Value: value, Classification: entry.Classification}
	if secs, err := strconv.ParseInt(entry.Timestamp, 10, 64); err == nil {
		snapshot.UpdatedAt = time.Unix(secs, 0).UTC()
	}
	return snapshot, nil
}
