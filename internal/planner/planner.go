// Package planner runs the ticket planning pipeline: a strictly linear
// sequence of stages that turns one specification into tickets, epics, a
// dependency graph, an execution schedule, and a set of plan documents.
//
// The pipeline is all or nothing. A caller receives either a complete
// Result, with warnings for everything that was repaired along the way,
// or a single structured failure naming the stage that broke. Nothing is
// persisted by the pipeline itself except through the injected document
// store.
package planner

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ticketforge/internal/docstore"
	"github.com/felixgeelhaar/ticketforge/internal/errors"
	"github.com/felixgeelhaar/ticketforge/internal/log"
	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/specdoc"
)

// DefaultPlanNamePrefix is used when a request does not name its plan
const DefaultPlanNamePrefix = "plan"

// Planner orchestrates the pipeline. The generation router and document
// store are injected at construction time; the planner owns neither.
type Planner struct {
	config    *Config
	router    *router.Router
	store     docstore.Store
	logger    *log.Logger
	stageHook func(Stage)
}

// Option configures optional planner behavior
type Option func(*Planner)

// WithStageHook registers a callback invoked when the pipeline enters a
// stage. Used by the CLI to drive progress display; the hook runs on the
// pipeline goroutine and must return quickly.
func WithStageHook(hook func(Stage)) Option {
	return func(p *Planner) {
		p.stageHook = hook
	}
}

// New creates a planner
func New(config *Config, rt *router.Router, store docstore.Store, logger *log.Logger, opts ...Option) (*Planner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, errors.NewConfigInvalidError("planner requires a generation router")
	}
	if store == nil {
		return nil, errors.NewConfigInvalidError("planner requires a document store")
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	p := &Planner{
		config: config,
		router: rt,
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// run is the in-flight state of one pipeline invocation. The result is
// owned exclusively by the run until Run returns it; parsed and components
// are ephemeral and never appear on the result.
type run struct {
	req        *Request
	prefix     string
	parsed     *ParsedSpecification
	components []Component
	result     *Result
}

// Run executes the full pipeline for one specification.
//
// Validation and the token-budget check happen before any stage runs;
// their failures are returned as-is. A stage failure aborts the run and
// is wrapped in a failure naming the stage. Cancellation is checked
// before each stage and surfaces as the context's own error, never as a
// stage failure.
func (p *Planner) Run(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	spec := &specdoc.Specification{
		ID:             req.SpecificationID,
		Content:        req.SpecificationContent,
		Type:           req.SpecType,
		ProjectContext: req.ProjectContext,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := p.router.CheckSpecificationSize(req.SpecificationContent); err != nil {
		return nil, err
	}
	hash, err := specdoc.Hash(spec)
	if err != nil {
		return nil, err
	}

	prefix := req.PlanNamePrefix
	if prefix == "" {
		prefix = DefaultPlanNamePrefix
	}

	r := &run{
		req:    req,
		prefix: prefix,
		result: &Result{
			RunID:             uuid.New().String(),
			SpecificationID:   req.SpecificationID,
			SpecificationHash: hash,
			PlanName:          prefix,
			CreatedAt:         start.UTC(),
		},
	}

	logger := p.logger.WithRun(r.result.RunID).With("specification_id", req.SpecificationID)
	logger.Info("planning run started",
		"spec_type", string(req.SpecType),
		"estimated_tokens", router.EstimateTokens(req.SpecificationContent),
	)

	steps := []struct {
		stage Stage
		fn    func(context.Context, *run) error
	}{
		{StageParse, p.stageParse},
		{StageComponents, p.stageComponents},
		{StageTickets, p.stageTickets},
		{StageEpics, p.stageEpics},
		{StageGraph, p.stageGraph},
		{StageSchedule, p.stageSchedule},
		{StageDocuments, p.stageDocuments},
	}

	current := steps[0].stage
	for i, step := range steps {
		if i > 0 {
			if !CanTransition(current, step.stage) {
				return nil, errors.New(errors.ErrCodePlanInvalid,
					"illegal stage transition from "+string(current)+" to "+string(step.stage))
			}
			current = step.stage
		}

		if err := ctx.Err(); err != nil {
			logger.Info("planning run cancelled", "stage", string(current))
			return nil, err
		}

		stageStart := time.Now()
		logger.Info("stage started", "stage", string(current))
		if p.stageHook != nil {
			p.stageHook(current)
		}

		if err := step.fn(ctx, r); err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				logger.Info("planning run cancelled", "stage", string(current))
				return nil, err
			}
			logger.Error("stage failed",
				"stage", string(step.stage),
				"error", err.Error(),
			)
			return nil, errors.NewStageFailedError(string(step.stage), err)
		}

		logger.Info("stage completed",
			"stage", string(current),
			"duration", time.Since(stageStart).String(),
		)
	}
	current = StageDone

	r.result.Usage = p.router.Usage()
	r.result.Duration = time.Since(start)

	logger.Info("planning run completed",
		"stage", string(current),
		"tickets", len(r.result.Tickets),
		"epics", len(r.result.Epics),
		"warnings", len(r.result.Warnings),
		"duration", r.result.Duration.String(),
	)
	return r.result, nil
}
