// Package oracle is the completion-oracle boundary: prompt in, text out,
// fallible. The pipeline treats the output as untrusted and validates it
// downstream. Client is injected at construction time; lifecycle is
// owned by the caller.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hazyhaar/siteintel/urlguard"
)

// Client completes a prompt into raw text. Implementations must respect
// ctx cancellation and return an error on transport or upstream failure.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures the HTTP client.
type Config struct {
	// BaseURL of an OpenAI-compatible server, e.g. "http://llm:8080".
	// The chat completions path is appended.
	BaseURL string
	// Model name passed through to the server.
	Model string
	// APIKey, sent as a Bearer token when non-empty.
	APIKey string
	// Timeout for the single round trip. Default: 45s.
	Timeout time.Duration
	// Temperature for generation. Default: 0.1 — extraction wants
	// determinism, not creativity.
	Temperature float64
	// SystemPrompt prefixed to every request.
	SystemPrompt string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = "You are a precise data extraction engine. Respond with JSON only, no prose."
	}
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTP creates an HTTPClient.
func NewHTTP(cfg Config) (*HTTPClient, error) {
	cfg.defaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("oracle: BaseURL is required")
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string      `json:"finish_reason"`
		Message      chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion round trip and returns the raw
// assistant text. No retries here — retry policy belongs to the caller.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:      false,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("oracle: marshal request: %w", err)
	}

	url := c.cfg.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("oracle: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle: http: %w", err)
	}
	defer resp.Body.Close()

	data, err := urlguard.LimitedReadAll(resp.Body, 4<<20)
	if err != nil {
		return "", fmt.Errorf("oracle: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oracle: http %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("oracle: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("oracle: upstream: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
