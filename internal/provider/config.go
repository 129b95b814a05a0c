package provider

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// Config describes one provider endpoint. It lives under the `provider:`
// key of the planner configuration file. The API key itself is never part
// of the file; it is resolved from the environment or the credential store.
type Config struct {
	// Name selects the adapter ("anthropic" is the only builtin)
	Name string `yaml:"name"`

	// BaseURL overrides the provider endpoint (for proxies and tests)
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// DefaultModel is used when a request carries no model
	DefaultModel string `yaml:"default_model,omitempty"`

	// TimeoutSeconds bounds one HTTP round trip
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// APIKey is the resolved key. Populated by ResolveAPIKey, never serialized.
	APIKey string `yaml:"-"`

	// Timeout is the resolved request timeout
	Timeout time.Duration `yaml:"-"`
}

// DefaultConfig returns the builtin Anthropic provider configuration
func DefaultConfig() *Config {
	return &Config{
		Name:           "anthropic",
		APIKeyEnv:      "ANTHROPIC_API_KEY",
		DefaultModel:   "claude-3-5-haiku-latest",
		TimeoutSeconds: 120,
	}
}

// Validate checks the provider configuration for structural problems
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.NewConfigInvalidError("provider name is required")
	}
	if c.Name != "anthropic" {
		return errors.NewConfigInvalidError(fmt.Sprintf("unknown provider: %s", c.Name))
	}
	if c.TimeoutSeconds < 0 {
		return errors.NewConfigInvalidError("provider timeout_seconds must not be negative")
	}
	return nil
}

// ResolveAPIKey fills in APIKey and Timeout from the environment, falling
// back to the supplied lookup (typically the local credential store).
// The lookup may be nil.
func (c *Config) ResolveAPIKey(lookup func(name string) (string, bool)) error {
	envVar := c.APIKeyEnv
	if envVar == "" {
		envVar = "ANTHROPIC_API_KEY"
	}

	if key := os.Getenv(envVar); key != "" {
		c.APIKey = key
	} else if lookup != nil {
		if key, ok := lookup(c.Name + "-api-key"); ok {
			c.APIKey = key
		}
	}

	if c.APIKey == "" {
		return errors.NewProviderAuthError(c.Name)
	}

	if c.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}

	return nil
}

// NewClient constructs the adapter named by the configuration
func NewClient(config *Config) (Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Name {
	case "anthropic":
		return NewAnthropicClient(config)
	default:
		return nil, errors.NewConfigInvalidError(fmt.Sprintf("unknown provider: %s", config.Name))
	}
}
