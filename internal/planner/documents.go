package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

const markdownContentType = "text/markdown"

// stageDocuments generates the executive summary and execution plan, then
// renders one markdown file per ticket from a fixed template. Generation
// failures are stage-fatal like any other stage; storage failures are
// surfaced as warnings and never fail the run.
func (p *Planner) stageDocuments(ctx context.Context, r *run) error {
	summary, err := p.generateDocument(ctx, buildSummarySystemPrompt(), buildSummaryUserPrompt(r.result))
	if err != nil {
		return err
	}
	plan, err := p.generateDocument(ctx, buildExecutionPlanSystemPrompt(), buildExecutionPlanUserPrompt(r.result))
	if err != nil {
		return err
	}

	if err := p.storeDocument(ctx, r, r.prefix+"-executive-summary.md", []byte(summary), 0); err != nil {
		return err
	}
	if err := p.storeDocument(ctx, r, r.prefix+"-execution-plan.md", []byte(plan), 0); err != nil {
		return err
	}

	epicsByNumber := make(map[int]*ticket.Epic, len(r.result.Epics))
	for i := range r.result.Epics {
		epicsByNumber[r.result.Epics[i].EpicNumber] = &r.result.Epics[i]
	}

	for i := range r.result.Tickets {
		t := &r.result.Tickets[i]
		path := ticket.DocumentFilename(r.prefix, t)
		content := renderTicketMarkdown(t, epicsByNumber[t.EpicNumber])
		if err := p.storeDocument(ctx, r, path, content, t.TicketNumber); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) generateDocument(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.router.Generate(ctx, &router.Request{
		Stage:        string(StageDocuments),
		Tier:         router.TierStandard,
		Prompt:       userPrompt,
		SystemPrompt: systemPrompt,
		MaxTokens:    documentMaxTokens,
		Temperature:  documentTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// storeDocument persists one document. A store failure becomes a warning
// on the result unless the context is done, in which case the run is
// cancelled like anywhere else.
func (p *Planner) storeDocument(ctx context.Context, r *run, path string, content []byte, ticketNumber int) error {
	if err := p.store.Put(ctx, path, content, markdownContentType); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("document store put failed",
			"path", path,
			"error", err.Error(),
		)
		r.result.Warnings = append(r.result.Warnings, ticket.Warning{
			Code:         ticket.WarnDocumentStoreFailed,
			TicketNumber: ticketNumber,
			Message:      fmt.Sprintf("failed to store %s: %v", path, err),
		})
		return nil
	}

	r.result.Documents = append(r.result.Documents, StoredDocument{Path: path, ContentType: markdownContentType})
	return nil
}

// renderTicketMarkdown renders one ticket document by template
// substitution over the ticket's fields. No generation call is involved;
// the same ticket always renders to identical bytes.
func renderTicketMarkdown(t *ticket.Ticket, epic *ticket.Epic) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Ticket #%d: %s\n\n", t.TicketNumber, t.Title))

	if epic != nil {
		b.WriteString(fmt.Sprintf("**Epic:** #%d %s\n", epic.EpicNumber, epic.Title))
	} else {
		b.WriteString("**Epic:** none\n")
	}
	b.WriteString(fmt.Sprintf("**Status:** %s\n", t.Status))
	b.WriteString(fmt.Sprintf("**Complexity:** %s\n", t.Complexity))
	b.WriteString(fmt.Sprintf("**Estimate:** %d minutes\n", t.EstimatedMinutes))
	b.WriteString(fmt.Sprintf("**Parallelizable:** %s\n", yesNo(t.Parallelizable)))
	b.WriteString(fmt.Sprintf("**AI agent capable:** %s\n\n", yesNo(t.AIAgentCapable)))

	b.WriteString("## Description\n\n")
	b.WriteString(t.Description)
	b.WriteString("\n\n")

	b.WriteString("## Acceptance Criteria\n\n")
	if len(t.AcceptanceCriteria) == 0 {
		b.WriteString("None specified.\n")
	} else {
		for _, c := range t.AcceptanceCriteria {
			b.WriteString(fmt.Sprintf("- [ ] %s\n", c))
		}
	}

	b.WriteString("\n## Dependencies\n\n")
	if len(t.Dependencies) == 0 {
		b.WriteString("None.\n")
	} else {
		for _, dep := range t.Dependencies {
			b.WriteString(fmt.Sprintf("- #%d\n", dep))
		}
	}

	if len(t.RequiredExpertise) > 0 {
		b.WriteString("\n## Required Expertise\n\n")
		for _, e := range t.RequiredExpertise {
			b.WriteString(fmt.Sprintf("- %s\n", e))
		}
	}
	if t.TestingStrategy != "" {
		b.WriteString("\n## Testing Strategy\n\n")
		b.WriteString(t.TestingStrategy)
		b.WriteString("\n")
	}
	if t.RollbackPlan != "" {
		b.WriteString("\n## Rollback Plan\n\n")
		b.WriteString(t.RollbackPlan)
		b.WriteString("\n")
	}

	return []byte(b.String())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
