package provider

import (
	"context"
)

// Client is the contract the planning pipeline holds against a generative
// text service. The pipeline never talks to a provider except through this
// interface; concrete adapters are injected at construction time.
type Client interface {
	// Generate sends a prompt and returns the complete response.
	// Failures are typed: rate limiting and authentication are
	// distinguishable from other request failures via errors.HasCode.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider identifier (e.g. "anthropic")
	Name() string

	// Health performs a minimal round trip against the provider.
	// Returns nil if the provider is reachable and the credentials work.
	Health(ctx context.Context) error

	// Close cleans up any resources used by the provider.
	Close() error
}
