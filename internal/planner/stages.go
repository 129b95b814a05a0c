package planner

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
	"github.com/felixgeelhaar/ticketforge/internal/graph"
	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/schedule"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

// Per-stage generation parameters. Structural stages run cool so repeated
// runs stay close; ticket and document prose runs warmer.
const (
	parseMaxTokens      = 4096
	componentsMaxTokens = 4096
	ticketsMaxTokens    = 8192
	epicsMaxTokens      = 2048
	documentMaxTokens   = 4096

	structuredTemperature = 0.2
	ticketTemperature     = 0.4
	documentTemperature   = 0.7
)

type componentsResponse struct {
	Components []Component `json:"components"`
}

// generatedTicket is the ticket content the model returns for one
// component. Numbers, epics, status, and dependencies are assigned by the
// pipeline, never by the model.
type generatedTicket struct {
	Component          string            `json:"component"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	AcceptanceCriteria []string          `json:"acceptance_criteria"`
	EstimatedMinutes   int               `json:"estimated_minutes"`
	Complexity         ticket.Complexity `json:"complexity"`
	Parallelizable     bool              `json:"parallelizable"`
	AIAgentCapable     bool              `json:"ai_agent_capable"`
	RequiredExpertise  []string          `json:"required_expertise"`
	TestingStrategy    string            `json:"testing_strategy"`
	RollbackPlan       string            `json:"rollback_plan"`
}

type ticketsResponse struct {
	Tickets []generatedTicket `json:"tickets"`
}

type epicProposal struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TicketNumbers []int  `json:"ticket_numbers"`
}

type epicsResponse struct {
	Epics []epicProposal `json:"epics"`
}

// stageParse extracts the specification's objective, requirements,
// constraints, and success criteria
func (p *Planner) stageParse(ctx context.Context, r *run) error {
	resp, err := p.router.Generate(ctx, &router.Request{
		Stage:        string(StageParse),
		Tier:         router.TierHighCapability,
		Prompt:       buildParseUserPrompt(r.req),
		SystemPrompt: buildParseSystemPrompt(),
		MaxTokens:    parseMaxTokens,
		Temperature:  structuredTemperature,
	})
	if err != nil {
		return err
	}

	var parsed ParsedSpecification
	if err := decodeResponse(resp.Text, &parsed); err != nil {
		return err
	}
	if parsed.Objective == "" {
		return errors.New(errors.ErrCodeMalformedResponse, "parsed specification has no objective")
	}

	r.parsed = &parsed
	return nil
}

// stageComponents decomposes the parsed specification into implementable
// components with name-level dependencies
func (p *Planner) stageComponents(ctx context.Context, r *run) error {
	resp, err := p.router.Generate(ctx, &router.Request{
		Stage:        string(StageComponents),
		Tier:         router.TierHighCapability,
		Prompt:       buildComponentsUserPrompt(r.parsed, r.req.ProjectContext),
		SystemPrompt: buildComponentsSystemPrompt(),
		MaxTokens:    componentsMaxTokens,
		Temperature:  structuredTemperature,
	})
	if err != nil {
		return err
	}

	var out componentsResponse
	if err := decodeResponse(resp.Text, &out); err != nil {
		return err
	}
	if len(out.Components) == 0 {
		return errors.New(errors.ErrCodeMalformedResponse, "components stage returned no components")
	}

	r.components = out.Components
	return nil
}

// stageTickets turns components into tickets, one ticket per component.
// Components are batched to bound prompt size, and batches may run
// concurrently up to the configured limit. Ticket numbers follow component
// order regardless of which batch finishes first, so concurrency never
// changes the output.
func (p *Planner) stageTickets(ctx context.Context, r *run) error {
	batches := batchComponents(r.components, p.config.TicketBatchSize)
	results := make([][]ticket.Ticket, len(batches))

	sem := make(chan struct{}, p.config.TicketBatchConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch componentBatch) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			tickets, err := p.generateTicketBatch(ctx, batch, r.req.ProjectContext)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[i] = tickets
		}(i, batch)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	for _, batchTickets := range results {
		r.result.Tickets = append(r.result.Tickets, batchTickets...)
	}

	r.result.Warnings = append(r.result.Warnings, resolveDependencies(r.components, r.result.Tickets)...)
	r.result.Warnings = append(r.result.Warnings, ticket.Normalize(r.result.Tickets)...)
	return nil
}

// componentBatch is one slice of the component list. start is the global
// index of its first component, which fixes the batch's ticket numbers.
type componentBatch struct {
	start      int
	components []Component
}

func batchComponents(components []Component, size int) []componentBatch {
	var batches []componentBatch
	for start := 0; start < len(components); start += size {
		end := start + size
		if end > len(components) {
			end = len(components)
		}
		batches = append(batches, componentBatch{start: start, components: components[start:end]})
	}
	return batches
}

// generateTicketBatch requests tickets for one batch and matches them back
// to components by name. A component the model skipped still becomes a
// ticket, built from the component itself.
func (p *Planner) generateTicketBatch(ctx context.Context, batch componentBatch, projectContext string) ([]ticket.Ticket, error) {
	resp, err := p.router.Generate(ctx, &router.Request{
		Stage:        string(StageTickets),
		Tier:         router.TierStandard,
		Prompt:       buildTicketsUserPrompt(batch.components, projectContext),
		SystemPrompt: buildTicketsSystemPrompt(),
		MaxTokens:    ticketsMaxTokens,
		Temperature:  ticketTemperature,
	})
	if err != nil {
		return nil, err
	}

	var out ticketsResponse
	if err := decodeResponse(resp.Text, &out); err != nil {
		return nil, err
	}

	byComponent := make(map[string]*generatedTicket, len(out.Tickets))
	for i := range out.Tickets {
		g := &out.Tickets[i]
		if _, ok := byComponent[g.Component]; !ok {
			byComponent[g.Component] = g
		}
	}

	tickets := make([]ticket.Ticket, 0, len(batch.components))
	for i, c := range batch.components {
		number := batch.start + i + 1
		g, ok := byComponent[c.Name]
		if !ok {
			p.logger.Warn("model skipped a component, synthesizing its ticket",
				"component", c.Name,
				"ticket_number", number,
			)
			tickets = append(tickets, fallbackTicket(number, c))
			continue
		}
		tickets = append(tickets, ticket.Ticket{
			TicketNumber:       number,
			Title:              g.Title,
			Description:        g.Description,
			AcceptanceCriteria: g.AcceptanceCriteria,
			EstimatedMinutes:   g.EstimatedMinutes,
			Complexity:         g.Complexity,
			Parallelizable:     g.Parallelizable,
			AIAgentCapable:     g.AIAgentCapable,
			RequiredExpertise:  g.RequiredExpertise,
			TestingStrategy:    g.TestingStrategy,
			RollbackPlan:       g.RollbackPlan,
			Status:             ticket.StatusTodo,
		})
	}
	return tickets, nil
}

// fallbackTicket builds a ticket straight from a component when the model
// did not return one. The estimate converts component days at eight hours
// per day, capped at the ticket maximum.
func fallbackTicket(number int, c Component) ticket.Ticket {
	minutes := c.EstimatedDays * 8 * 60
	if minutes <= 0 {
		minutes = ticket.DefaultEstimateMinutes
	}
	if minutes > ticket.MaxEstimateMinutes {
		minutes = ticket.MaxEstimateMinutes
	}
	return ticket.Ticket{
		TicketNumber:     number,
		Title:            fmt.Sprintf("Implement %s", c.Name),
		Description:      c.Description,
		EstimatedMinutes: minutes,
		Complexity:       ticket.ComplexityMedium,
		Status:           ticket.StatusTodo,
	}
}

// resolveDependencies turns each component's name-level dependency list
// into ticket numbers. Components and tickets correspond one to one in
// order. Names that match no component are dropped with a warning.
func resolveDependencies(components []Component, tickets []ticket.Ticket) []ticket.Warning {
	numberByName := make(map[string]int, len(components))
	for i, c := range components {
		if _, ok := numberByName[c.Name]; !ok {
			numberByName[c.Name] = i + 1
		}
	}

	var warnings []ticket.Warning
	for i := range components {
		t := &tickets[i]
		for _, dep := range components[i].Dependencies {
			number, ok := numberByName[dep]
			if !ok {
				warnings = append(warnings, ticket.Warning{
					Code:         ticket.WarnUnresolvedDependency,
					TicketNumber: t.TicketNumber,
					Message:      fmt.Sprintf("dependency %q does not name any component", dep),
				})
				continue
			}
			if number == t.TicketNumber {
				continue
			}
			t.Dependencies = append(t.Dependencies, number)
		}
	}
	return warnings
}

// stageEpics asks the model for an epic grouping and applies it under the
// partition rules: at most one epic per ticket, at most MaxTicketsPerEpic
// tickets per epic, and tickets the model left out stay epic-less.
func (p *Planner) stageEpics(ctx context.Context, r *run) error {
	resp, err := p.router.Generate(ctx, &router.Request{
		Stage:        string(StageEpics),
		Tier:         router.TierHighCapability,
		Prompt:       buildEpicsUserPrompt(r.result.Tickets, p.config.MaxTicketsPerEpic),
		SystemPrompt: buildEpicsSystemPrompt(),
		MaxTokens:    epicsMaxTokens,
		Temperature:  structuredTemperature,
	})
	if err != nil {
		return err
	}

	var out epicsResponse
	if err := decodeResponse(resp.Text, &out); err != nil {
		return err
	}

	epics, warnings := assignEpics(r.result.Tickets, out.Epics, p.config.MaxTicketsPerEpic)
	r.result.Epics = epics
	r.result.Warnings = append(r.result.Warnings, warnings...)
	return nil
}

// assignEpics applies the model's epic proposals to the tickets. Epics are
// renumbered 1..K in proposal order, skipping proposals that end up empty.
// A ticket claimed twice stays with the first epic that claimed it.
func assignEpics(tickets []ticket.Ticket, proposals []epicProposal, maxPerEpic int) ([]ticket.Epic, []ticket.Warning) {
	byNumber := ticket.ByNumber(tickets)
	claimed := make(map[int]int)

	var epics []ticket.Epic
	var warnings []ticket.Warning

	for _, proposal := range proposals {
		epicNumber := len(epics) + 1
		var members []int

		for _, n := range proposal.TicketNumbers {
			t, ok := byNumber[n]
			if !ok {
				continue
			}
			if owner, ok := claimed[n]; ok {
				if owner != epicNumber {
					warnings = append(warnings, ticket.Warning{
						Code:         ticket.WarnEpicConflict,
						TicketNumber: n,
						Message:      fmt.Sprintf("ticket %d claimed by epic %q but already assigned to epic %d", n, proposal.Title, owner),
					})
				}
				continue
			}
			if len(members) >= maxPerEpic {
				warnings = append(warnings, ticket.Warning{
					Code:         ticket.WarnEpicOverflow,
					TicketNumber: n,
					Message:      fmt.Sprintf("epic %q is full at %d tickets, ticket %d stays epic-less", proposal.Title, maxPerEpic, n),
				})
				continue
			}

			members = append(members, n)
			claimed[n] = epicNumber
			t.EpicNumber = epicNumber
		}

		if len(members) == 0 {
			continue
		}
		epics = append(epics, ticket.Epic{
			EpicNumber:    epicNumber,
			Title:         proposal.Title,
			Description:   proposal.Description,
			TicketNumbers: members,
		})
	}

	return epics, warnings
}

// stageGraph builds the dependency graph deterministically from the
// tickets' declared dependencies. No generation call is made here. The
// repaired edge set is written back onto the tickets so the result never
// shows a dependency the graph dropped.
func (p *Planner) stageGraph(ctx context.Context, r *run) error {
	g := graph.Build(r.result.Tickets, p.config.BlockerLimit)
	r.result.Graph = g
	r.result.Warnings = append(r.result.Warnings, g.Warnings...)

	deps := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		deps[e.From] = append(deps[e.From], e.To)
	}
	for i := range r.result.Tickets {
		t := &r.result.Tickets[i]
		t.Dependencies = deps[t.TicketNumber]
	}
	return nil
}

// stageSchedule assigns tickets onto parallel execution tracks
func (p *Planner) stageSchedule(ctx context.Context, r *run) error {
	r.result.Schedule = schedule.Assign(r.result.Tickets, r.result.Graph, p.config.Tracks)
	return nil
}
