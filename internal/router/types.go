package router

import "time"

// Tier selects the model capability class for a generation call. Stages
// doing heavy structural reasoning use the high-capability tier; bulk text
// generation uses the standard tier.
type Tier string

const (
	TierHighCapability Tier = "high_capability"
	TierStandard       Tier = "standard"
)

// Request is a single generation request routed through the retry wrapper.
// Stage labels the call for the usage ledger.
type Request struct {
	Stage        string
	Tier         Tier
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// Usage records one successful generation call
type Usage struct {
	Stage        string        `json:"stage"`
	Model        string        `json:"model"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	CostUSD      float64       `json:"cost_usd"`
	Latency      time.Duration `json:"latency"`
	Attempts     int           `json:"attempts"`
	Timestamp    time.Time     `json:"timestamp"`
}

// StageUsage aggregates usage for one pipeline stage
type StageUsage struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// UsageReport is a snapshot of the run's token and cost ledger
type UsageReport struct {
	TotalCalls        int                   `json:"total_calls"`
	TotalInputTokens  int                   `json:"total_input_tokens"`
	TotalOutputTokens int                   `json:"total_output_tokens"`
	TotalCostUSD      float64               `json:"total_cost_usd"`
	Stages            map[string]StageUsage `json:"stages,omitempty"`
}
