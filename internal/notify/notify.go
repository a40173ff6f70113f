// Package notify pushes run summaries to an operator channel. Delivery is
// best effort; a failed notification never fails the run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Noop swallows messages. Used when no webhook is configured.
type Noop struct{}

func (Noop) Send(context.Context, string) error { return nil }

// WebhookNotifier posts a plain text payload to an incoming-webhook URL.
type WebhookNotifier struct {
	url   string
	httpc *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{url: strings.TrimSpace(url), httpc: &http.Client{Timeout: timeout}}
}

var _ Notifier = (*WebhookNotifier)(nil)

func (n *WebhookNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: unexpected status %s", resp.Status)
	}
	return nil
}
