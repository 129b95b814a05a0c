package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

// AnthropicClient implements the Client interface for the Anthropic messages API
type AnthropicClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

// Anthropic API request/response structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason,omitempty"`
	Usage      anthropicUsage     `json:"usage"`
	Error      *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAnthropicClient creates a new Anthropic client from resolved configuration
func NewAnthropicClient(config *Config) (*AnthropicClient, error) {
	if config.APIKey == "" {
		return nil, errors.NewProviderAuthError("anthropic")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &AnthropicClient{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		model:   config.DefaultModel,
	}, nil
}

// Name implements Client.Name
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Generate implements Client.Generate
func (c *AnthropicClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	startTime := time.Now()

	anthReq := c.buildRequest(req)

	reqBody, err := json.Marshal(anthReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/messages", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		// Context cancellation must stay visible to the retry layer
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewProviderAPIError("anthropic", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.NewProviderAPIError("anthropic", fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.statusError(httpResp, respBody)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(respBody, &anthResp); err != nil {
		return nil, errors.NewProviderAPIError("anthropic", fmt.Errorf("unmarshal response: %w", err))
	}

	text := ""
	if len(anthResp.Content) > 0 {
		text = anthResp.Content[0].Text
	}

	return &GenerateResponse{
		Text:         text,
		InputTokens:  anthResp.Usage.InputTokens,
		OutputTokens: anthResp.Usage.OutputTokens,
		Model:        anthResp.Model,
		Latency:      time.Since(startTime),
		StopReason:   anthResp.StopReason,
	}, nil
}

// statusError maps a non-200 response to the typed failure classes the
// retry layer distinguishes: 429 and 529 are throttling, 401/403 are
// credential problems, everything else is a plain generation failure.
func (c *AnthropicClient) statusError(resp *http.Response, body []byte) error {
	apiMessage := fmt.Sprintf("http error %d", resp.StatusCode)
	var errResp anthropicResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		apiMessage = errResp.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, 529:
		return errors.NewProviderRateLimitError("anthropic", resp.Header.Get("Retry-After"))
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewProviderAuthError("anthropic")
	default:
		return errors.NewProviderAPIError("anthropic", fmt.Errorf("%s (status %d)", apiMessage, resp.StatusCode))
	}
}

// buildRequest constructs an Anthropic API request from our GenerateRequest
func (c *AnthropicClient) buildRequest(req *GenerateRequest) *anthropicRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}

	// Anthropic requires max_tokens
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &anthropicRequest{
		Model: model,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
		System:      req.SystemPrompt, // System prompt is separate in Anthropic
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
}

// Health implements Client.Health with a minimal one-token request
func (c *AnthropicClient) Health(ctx context.Context) error {
	_, err := c.Generate(ctx, &GenerateRequest{
		Prompt:    "ping",
		MaxTokens: 1,
	})
	return err
}

// Close implements Client.Close
func (c *AnthropicClient) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
