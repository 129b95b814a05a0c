package provider

import "time"

// GenerateRequest contains all parameters for one generation call
type GenerateRequest struct {
	// Model is the concrete model identifier for this call.
	// The router fills it in from the stage's tier; adapters never guess.
	Model string `json:"model"`

	// Prompt is the main input text for the model
	Prompt string `json:"prompt"`

	// SystemPrompt sets the system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens limits the maximum response length.
	// Set to 0 to use the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 = deterministic)
	Temperature float64 `json:"temperature,omitempty"`
}

// GenerateResponse contains the model's response
type GenerateResponse struct {
	// Text is the generated text
	Text string `json:"text"`

	// InputTokens is tokens in the prompt
	InputTokens int `json:"input_tokens"`

	// OutputTokens is tokens in the response
	OutputTokens int `json:"output_tokens"`

	// Model is the actual model that generated the response
	Model string `json:"model"`

	// Latency is how long the generation took
	Latency time.Duration `json:"latency"`

	// StopReason explains why generation stopped
	// Common values: "end_turn" (natural end), "max_tokens" (truncated)
	StopReason string `json:"stop_reason,omitempty"`
}

// TotalTokens returns input plus output tokens for ledger accounting
func (r *GenerateResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Truncated reports whether the response was cut off at the token limit
func (r *GenerateResponse) Truncated() bool {
	return r.StopReason == "max_tokens"
}
