// Package translate renders the oracle's English reasoning into the
// operator's language. Translation is cosmetic: callers fall back to the
// original text on any error.
package translate

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

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Noop passes text through untouched. Used when translation is disabled.
type Noop struct{}

func (Noop) Translate(_ context.Context, text string) (string, error) { return text, nil }

// GoogleClient calls the public translate endpoint with auto language
// detection on the source side.
type GoogleClient struct {
	endpoint string
	target   string
	httpc    *http.Client
}

func NewGoogleClient(endpoint, targetLang string, timeout time.Duration) *GoogleClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if targetLang == "" {
		targetLang = "ko"
	}
	return &GoogleClient{
		endpoint: strings.TrimSpace(endpoint),
		target:   targetLang,
		httpc:    &http.Client{Timeout: timeout},
	}
}

var _ Translator = (*GoogleClient)(nil)

func (c *GoogleClient) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", c.target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read body: %w", err)
	}

	// The reply is a nested array; segment translations live at [0][i][0].
	segments := gjson.GetBytes(body, "0")
	if !segments.IsArray() {
		return "", fmt.Errorf("translate: unexpected reply shape")
	}
	var b strings.Builder
	for _, seg := range segments.Array() {
		b.WriteString(seg.Get("0").String())
	}
	out := b.String()
	if out == "" {
		return "", fmt.Errorf("translate: empty result")
	}
	return out, nil
}
