package router

import (
	"time"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// Default retry and budget settings
const (
	DefaultMaxRetries             = 3
	DefaultBaseDelayMs            = 1000
	DefaultJitterMaxMs            = 1000
	DefaultMaxSpecificationTokens = 150000
)

// ModelTiers maps capability tiers to concrete model identifiers
type ModelTiers struct {
	HighCapability string `yaml:"high_capability"`
	Standard       string `yaml:"standard"`
}

// Pricing is the per-1K-token cost of a model, used for the cost ledger
type Pricing struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// Config controls retry behavior, tier-to-model mapping, and budget checks
type Config struct {
	MaxRetries             int                `yaml:"max_retries"`
	BaseDelayMs            int                `yaml:"base_delay_ms"`
	JitterMaxMs            int                `yaml:"jitter_max_ms"`
	Models                 ModelTiers         `yaml:"models"`
	Pricing                map[string]Pricing `yaml:"pricing,omitempty"`
	MaxSpecificationTokens int                `yaml:"max_specification_tokens"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:  DefaultMaxRetries,
		BaseDelayMs: DefaultBaseDelayMs,
		JitterMaxMs: DefaultJitterMaxMs,
		Models: ModelTiers{
			HighCapability: "claude-sonnet-4-5",
			Standard:       "claude-3-5-haiku-latest",
		},
		Pricing: map[string]Pricing{
			"claude-sonnet-4-5":       {InputPer1K: 0.003, OutputPer1K: 0.015},
			"claude-3-5-haiku-latest": {InputPer1K: 0.0008, OutputPer1K: 0.004},
		},
		MaxSpecificationTokens: DefaultMaxSpecificationTokens,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.NewConfigInvalidError("max_retries must be non-negative")
	}
	if c.BaseDelayMs < 0 {
		return errors.NewConfigInvalidError("base_delay_ms must be non-negative")
	}
	if c.JitterMaxMs < 0 {
		return errors.NewConfigInvalidError("jitter_max_ms must be non-negative")
	}
	if c.Models.HighCapability == "" {
		return errors.NewConfigInvalidError("models.high_capability is required")
	}
	if c.Models.Standard == "" {
		return errors.NewConfigInvalidError("models.standard is required")
	}
	if c.MaxSpecificationTokens < 1 {
		return errors.NewConfigInvalidError("max_specification_tokens must be positive")
	}
	for model, pricing := range c.Pricing {
		if pricing.InputPer1K < 0 || pricing.OutputPer1K < 0 {
			return errors.NewConfigInvalidError("pricing for " + model + " must be non-negative")
		}
	}
	return nil
}

// BaseDelay returns the configured base retry delay
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

// JitterMax returns the configured jitter ceiling
func (c *Config) JitterMax() time.Duration {
	return time.Duration(c.JitterMaxMs) * time.Millisecond
}

// ModelFor returns the model identifier configured for a tier. Unknown
// tiers fall back to the standard model.
func (c *Config) ModelFor(tier Tier) string {
	if tier == TierHighCapability {
		return c.Models.HighCapability
	}
	return c.Models.Standard
}

// Cost computes the ledger cost of a call against the configured pricing.
// Models without pricing cost zero.
func (c *Config) Cost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := c.Pricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1000*pricing.InputPer1K + float64(outputTokens)/1000*pricing.OutputPer1K
}
