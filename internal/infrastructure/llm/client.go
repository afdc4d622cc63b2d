// Package llm talks to OpenAI-compatible chat-completion endpoints.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"community/internal/domain"
	"community/internal/infrastructure/logging"
	"community/internal/infrastructure/metrics"
	"community/internal/ports/output"
)

// DefaultAPIURL is the Groq chat-completions endpoint.
const DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

const (
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 10 * 1024 * 1024 // 10 MiB
	breakerName  = "llm-api"
)

// ErrDisabled is returned by the client wired when no API key is configured.
var ErrDisabled = fmt.Errorf("%w: language model not configured", domain.ErrUpstream)

type Config struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

// New returns a circuit-breaker protected client, or a Disabled client when
// cfg carries no API key.
func New(cfg Config) output.LLM {
	if cfg.APIKey == "" {
		logging.Warn().Msg("llm: no API key configured, AI search and chat will degrade")
		return Disabled{}
	}
	return NewClient(cfg)
}

var _ output.LLM = (*Client)(nil)

type Client struct {
	url        string
	model      string
	apiKey     string // unexported; never serialized
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
}

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		url:        cfg.URL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends req and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req *output.CompletionRequest) (string, error) {
	content, err := c.cb.Execute(func() (string, error) {
		return c.complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.LLMRequests.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.LLMRequests.WithLabelValues("success").Inc()
	return content, nil
}

func (c *Client) complete(ctx context.Context, req *output.CompletionRequest) (string, error) {
	var messages []chatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != 0 {
		t := req.Temperature
		body.Temperature = &t
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response (HTTP %d, body: %s): %v",
			domain.ErrUpstream, resp.StatusCode, truncate(string(respBytes), 200), err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("%w: %s: %s", domain.ErrUpstream, parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstream, resp.StatusCode, truncate(string(respBytes), 200))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in response", domain.ErrUpstream)
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Disabled fails every call with ErrDisabled.
type Disabled struct{}

func (Disabled) Complete(context.Context, *output.CompletionRequest) (string, error) {
	return "", ErrDisabled
}
