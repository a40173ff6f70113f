package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"minerva/internal/decision"
	"minerva/internal/logger"
)

// OpenAIClient speaks the chat completions protocol with structured output
// enforced through a response_format json_schema block.
type OpenAIClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	httpc     *http.Client
}

func NewOpenAIClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIClient{
		baseURL:   normalizeBaseURL(baseURL),
		apiKey:    strings.TrimSpace(apiKey),
		model:     model,
		maxTokens: maxTokens,
		httpc:     &http.Client{Timeout: timeout},
	}
}

var _ Oracle = (*OpenAIClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat json.RawMessage `json:"response_format,omitempty"`
}

func (c *OpenAIClient) Verdict(ctx context.Context, req *decision.Request) ([]byte, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:      c.maxTokens,
		ResponseFormat: responseFormatBlock(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("oracle request encode: %w", err)
	}

	logger.Debugf("oracle call model=%s key=%s prompt_bytes=%d", c.model, maskKey(c.apiKey), len(body))
	logger.LogOracleRequest(c.model, req.SystemPrompt, req.UserPrompt)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("oracle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("oracle call: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oracle call: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error.message").String(); msg != "" {
			return nil, fmt.Errorf("oracle call: status %s: %s", resp.Status, msg)
		}
		return nil, fmt.Errorf("oracle call: unexpected status %s", resp.Status)
	}

	content := gjson.GetBytes(raw, "choices.0.message.content").String()
	if content == "" {
		return nil, fmt.Errorf("oracle call: reply has no message content")
	}
	logger.LogOracleResponse(c.model, content)
	return []byte(content), nil
}

// responseFormatBlock wraps the verdict schema in the structured-output
// envelope the API expects.
func responseFormatBlock() json.RawMessage {
	block := map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "trading_verdict",
			"strict": true,
			"schema": decision.ResponseFormat(),
		},
	}
	raw, _ := json.Marshal(block)
	return raw
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "https://api.openai.com/v1"
	}
	return raw
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
