package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 5, config.TicketBatchSize)
	assert.Equal(t, 1, config.TicketBatchConcurrency)
	assert.Equal(t, 10, config.MaxTicketsPerEpic)
	assert.Equal(t, 3, config.Tracks)
	assert.Equal(t, 5, config.BlockerLimit)
	assert.Equal(t, "plans", config.DocumentRoot)
	require.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero batch size", mutate: func(c *Config) { c.TicketBatchSize = 0 }},
		{name: "zero concurrency", mutate: func(c *Config) { c.TicketBatchConcurrency = 0 }},
		{name: "zero epic cap", mutate: func(c *Config) { c.MaxTicketsPerEpic = 0 }},
		{name: "zero tracks", mutate: func(c *Config) { c.Tracks = 0 }},
		{name: "negative blocker limit", mutate: func(c *Config) { c.BlockerLimit = -1 }},
		{name: "empty document root", mutate: func(c *Config) { c.DocumentRoot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalid))
		})
	}
}
