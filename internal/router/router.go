// Package router wraps the generation client with the pipeline's
// resilience policy: classified retries with exponential backoff for rate
// limits, a single flat retry for other failures, and a mutex-guarded
// token/cost ledger shared by all stages of a run.
package router

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
	"github.com/felixgeelhaar/ticketforge/internal/log"
	"github.com/felixgeelhaar/ticketforge/internal/provider"
)

// Router routes generation requests to the provider client, applying the
// retry policy and recording usage
type Router struct {
	config *Config
	client provider.Client
	logger *log.Logger

	// Injectable for tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration

	mu    sync.Mutex
	usage []Usage
}

// New creates a router around a provider client
func New(config *Config, client provider.Client, logger *log.Logger) (*Router, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	r := &Router{
		config: config,
		client: client,
		logger: logger,
		sleep:  sleepContext,
	}
	r.jitter = func() time.Duration {
		ceiling := config.JitterMax()
		if ceiling <= 0 {
			return 0
		}
		return time.Duration(rand.Int63n(int64(ceiling) + 1))
	}
	return r, nil
}

// Generate executes one generation request under the retry policy:
//
//   - Rate-limit failures are retried up to MaxRetries times, waiting
//     BaseDelay * 2^k plus uniform jitter before retry k.
//   - Auth failures are terminal immediately; retrying cannot help.
//   - Any other failure is retried exactly once after a flat BaseDelay.
//
// Once retries are exhausted the last failure is wrapped in a terminal
// unavailability error. Cancellation is checked before every retry sleep
// and always surfaces as the context's own error.
func (r *Router) Generate(ctx context.Context, req *Request) (*provider.GenerateResponse, error) {
	model := r.config.ModelFor(req.Tier)
	genReq := &provider.GenerateRequest{
		Model:        model,
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
	}

	logger := r.logger.With("stage", req.Stage, "model", model)

	var lastErr error
	rateLimitRetries := 0
	otherRetried := false

	for attempt := 0; ; attempt++ {
		resp, err := r.client.Generate(ctx, genReq)
		if err == nil {
			r.record(req.Stage, model, attempt+1, resp)
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		switch {
		case errors.HasCode(err, errors.ErrCodeProviderAuth):
			return nil, err

		case errors.HasCode(err, errors.ErrCodeProviderRateLimit):
			if rateLimitRetries >= r.config.MaxRetries {
				logger.Warn("rate limit retries exhausted", "attempts", attempt+1)
				return nil, errors.NewGenerationUnavailableError(attempt+1, lastErr)
			}
			delay := r.config.BaseDelay()<<rateLimitRetries + r.jitter()
			rateLimitRetries++
			logger.Warn("rate limited, backing off",
				"attempt", attempt+1,
				"delay", delay.String(),
			)
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}

		default:
			if otherRetried {
				logger.Warn("generation failed after retry", "attempts", attempt+1)
				return nil, errors.NewGenerationUnavailableError(attempt+1, lastErr)
			}
			otherRetried = true
			logger.Warn("generation failed, retrying once",
				"attempt", attempt+1,
				"error", err.Error(),
			)
			if err := r.sleep(ctx, r.config.BaseDelay()); err != nil {
				return nil, err
			}
		}
	}
}

// CheckSpecificationSize rejects specifications whose estimated token count
// exceeds the configured budget. Runs before any generation call.
func (r *Router) CheckSpecificationSize(content string) error {
	estimated := EstimateTokens(content)
	if estimated > r.config.MaxSpecificationTokens {
		return errors.NewSpecTooLargeError(estimated, r.config.MaxSpecificationTokens)
	}
	return nil
}

// EstimateTokens approximates how many tokens text will consume. Three
// characters per token is a conservative heuristic for English prose.
func EstimateTokens(text string) int {
	return len(text) / 3
}

// Usage returns a snapshot of the run's cumulative token and cost ledger
func (r *Router) Usage() *UsageReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &UsageReport{Stages: make(map[string]StageUsage)}
	for _, u := range r.usage {
		report.TotalCalls++
		report.TotalInputTokens += u.InputTokens
		report.TotalOutputTokens += u.OutputTokens
		report.TotalCostUSD += u.CostUSD

		stage := report.Stages[u.Stage]
		stage.Calls++
		stage.InputTokens += u.InputTokens
		stage.OutputTokens += u.OutputTokens
		stage.CostUSD += u.CostUSD
		report.Stages[u.Stage] = stage
	}
	return report
}

func (r *Router) record(stage, model string, attempts int, resp *provider.GenerateResponse) {
	usage := Usage{
		Stage:        stage,
		Model:        model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      r.config.Cost(model, resp.InputTokens, resp.OutputTokens),
		Latency:      resp.Latency,
		Attempts:     attempts,
		Timestamp:    time.Now(),
	}

	r.mu.Lock()
	r.usage = append(r.usage, usage)
	r.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
