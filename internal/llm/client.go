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

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4"
	defaultMaxTokens   = 1500
	defaultTemperature = 0.5
)

// Client handles communication with an OpenAI-compatible chat-completions API
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	retry       *RetryConfig
	httpClient  *http.Client
	logger      *observability.Logger
}

// ClientConfig holds the settings for NewClient
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration // 0 means no timeout
	Logger      *observability.Logger
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents the API request structure
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Response represents the API response structure
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// errorResponse is the error body returned by OpenAI-compatible APIs
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient creates a new LLM client. Zero values fall back to gpt-4,
// 1500 max tokens and the public OpenAI endpoint. Temperature is used as given.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.Nop()
	}

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		retry:       retry,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      cfg.Logger.WithComponent("llm"),
	}
}

// Complete sends prompt as the single user message and returns the trimmed
// content of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", domain.APIError("Failed to marshal request", err)
	}

	endpoint := c.baseURL + "/chat/completions"

	// Send request with retry logic
	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		return c.httpClient.Do(req)
	})
	if err != nil {
		return "", domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.APIError("Failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", domain.APIError(fmt.Sprintf("API returned status %d", resp.StatusCode), newHTTPError(resp.StatusCode, raw))
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", domain.APIError("Failed to decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.APIError("Response contained no choices", nil)
	}

	choice := parsed.Choices[0]
	c.logger.Debug().
		Str("model", c.model).
		Str("finish_reason", choice.FinishReason).
		Int("content_chars", len(choice.Message.Content)).
		Msg("Completion received")

	return strings.TrimSpace(choice.Message.Content), nil
}

// buildRequest constructs the chat request for one prompt
func (c *Client) buildRequest(prompt string) *Request {
	return &Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: SystemMessage},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
}

func newHTTPError(status int, raw []byte) *domain.HTTPError {
	httpErr := &domain.HTTPError{
		StatusCode: status,
		RawBody:    string(raw),
		Message:    "Unknown error",
		ErrorType:  "unknown",
	}

	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		httpErr.Message = e.Error.Message
		httpErr.ErrorType = e.Error.Type
	}
	return httpErr
}
