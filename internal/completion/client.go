package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ClientConfig holds configuration options for the HTTP completion client.
type ClientConfig struct {
	// BaseURL of the chat-completions endpoint.
	BaseURL string

	APIKey string

	// Model identifier sent with every request.
	Model string

	// Timeout for a single completion call (default: 25s).
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls (default: 2).
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:           25 * time.Second,
		RequestsPerSecond: 2,
	}
}

// Client calls a chat-completions style HTTP endpoint.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a completion client with the given configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout == 0 {
		config.Timeout = 25 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt pair and returns the raw response text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "limiter wait aborted", Cause: err}
	}

	body := chatRequest{
		Model:       c.config.Model,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	if req.JSONOnly {
		body.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "completion request failed", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status " + resp.Status + ": " + string(msg),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response contained no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}
