package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/harshitmangtani02/aitf/internal/httpx"
)

const (
	defaultBase    = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 30 * time.Second
)

// Config configures the OpenAI-compatible completion client.
type Config struct {
	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL overrides the API endpoint. Useful for local models or any
	// OpenAI-compatible gateway. Defaults to the OpenAI endpoint when empty.
	BaseURL string

	// Model is the chat model to use.
	Model string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration
}

type client struct {
	cfg     Config
	httpCfg httpx.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

// New returns a Provider backed by the OpenAI (or compatible) chat API.
// The returned provider is safe for concurrent use.
func New(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &client{
		cfg: cfg,
		httpCfg: httpx.ClientConfig{
			Client: &http.Client{Timeout: cfg.Timeout},
			Backoff: httpx.BackoffConfig{
				MaxRetries:      1,
				InitialInterval: time.Second,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: httpx.NewBreaker("llm"),
	}
}

// --- minimal chat-completions wire types ---

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type oaiResponse struct {
	Choices []struct {
		Message oaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// complete sends one system+user exchange and returns the raw assistant text.
func (c *client) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	body := oaiRequest{
		Model: c.cfg.Model,
		Messages: []oaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("llm: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response body: %w", err)
	}

	var parsed oaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode API response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned (HTTP %d)", resp.StatusCode)
	}
	return parsed.Choices[0].Message.Content, nil
}

// Analyze sends the utterance and session snapshot to the model and parses
// the structured reply. The model is asked for bare JSON but often wraps it
// in prose, so the JSON object is extracted by pattern before decoding.
func (c *client) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	raw, err := c.complete(ctx, analyzeSystemPrompt(req), req.Query, 0.4, 300)
	if err != nil {
		return nil, err
	}

	jsonStr, ok := extractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in %.200q", ErrMalformedOutput, raw)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %.200q)", ErrMalformedOutput, err, raw)
	}
	return &analysis, nil
}

// Compose narrates the weather record. The record is embedded in the system
// prompt; the user message restates the original question.
func (c *client) Compose(ctx context.Context, req ComposeRequest) (string, error) {
	user := fmt.Sprintf("The user asked: %q. Please provide a comprehensive weather response with fashion and travel advice.", req.Query)
	text, err := c.complete(ctx, composeSystemPrompt(req), user, 0.7, 500)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
