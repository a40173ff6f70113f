package signal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MethodologyLoader resolves the fixed trading-methodology text that anchors
// every oracle prompt. A local file takes precedence over the URL.
type MethodologyLoader struct {
	path  string
	url   string
	httpc *http.Client
}

func NewMethodologyLoader(path, url string, timeout time.Duration) *MethodologyLoader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MethodologyLoader{
		path:  strings.TrimSpace(path),
		url:   strings.TrimSpace(url),
		httpc: &http.Client{Timeout: timeout},
	}
}

func (l *MethodologyLoader) Load(ctx context.Context) (string, error) {
	if l.path != "" {
		raw, err := os.ReadFile(l.path)
		if err != nil {
			return "", fmt.Errorf("methodology: read %s: %w", l.path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	if l.url == "" {
		return "", fmt.Errorf("methodology: no source configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", fmt.Errorf("methodology: %w", err)
	}
	resp, err := l.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("methodology: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("methodology: unexpected status %s", resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("methodology: read body: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
