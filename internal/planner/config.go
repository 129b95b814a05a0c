package planner

import (
	"github.com/felixgeelhaar/ticketforge/internal/errors"
	"github.com/felixgeelhaar/ticketforge/internal/graph"
	"github.com/felixgeelhaar/ticketforge/internal/schedule"
)

// Pipeline defaults
const (
	DefaultTicketBatchSize        = 5
	DefaultTicketBatchConcurrency = 1
	DefaultMaxTicketsPerEpic      = 10
)

// Config holds the pipeline knobs for a Planner
type Config struct {
	// TicketBatchSize is how many components go into one ticket
	// generation call.
	TicketBatchSize int `yaml:"ticket_batch_size"`

	// TicketBatchConcurrency bounds how many ticket batches may be in
	// flight at once. 1 runs batches sequentially; higher values trade
	// rate-limit pressure for speed. Output is identical either way.
	TicketBatchConcurrency int `yaml:"ticket_batch_concurrency"`

	// MaxTicketsPerEpic caps epic size; overflow tickets stay epic-less.
	MaxTicketsPerEpic int `yaml:"max_tickets_per_epic"`

	// Tracks is the number of parallel execution tracks to schedule.
	Tracks int `yaml:"tracks"`

	// BlockerLimit caps the blocker ranking in the dependency graph.
	BlockerLimit int `yaml:"blocker_limit"`

	// DocumentRoot is where the filesystem document store writes.
	DocumentRoot string `yaml:"document_root"`
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() *Config {
	return &Config{
		TicketBatchSize:        DefaultTicketBatchSize,
		TicketBatchConcurrency: DefaultTicketBatchConcurrency,
		MaxTicketsPerEpic:      DefaultMaxTicketsPerEpic,
		Tracks:                 schedule.DefaultTracks,
		BlockerLimit:           graph.DefaultBlockerLimit,
		DocumentRoot:           "plans",
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.TicketBatchSize < 1 {
		return errors.NewConfigInvalidError("ticket_batch_size must be at least 1")
	}
	if c.TicketBatchConcurrency < 1 {
		return errors.NewConfigInvalidError("ticket_batch_concurrency must be at least 1")
	}
	if c.MaxTicketsPerEpic < 1 {
		return errors.NewConfigInvalidError("max_tickets_per_epic must be at least 1")
	}
	if c.Tracks < 1 {
		return errors.NewConfigInvalidError("tracks must be at least 1")
	}
	if c.BlockerLimit < 1 {
		return errors.NewConfigInvalidError("blocker_limit must be at least 1")
	}
	if c.DocumentRoot == "" {
		return errors.NewConfigInvalidError("document_root is required")
	}
	return nil
}
