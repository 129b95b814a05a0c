package planner

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/schedule"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

// buildParseSystemPrompt creates the system prompt for specification parsing
func buildParseSystemPrompt() string {
	return `You are an expert technical analyst. Your task is to read a software specification and extract its planning-relevant structure as JSON.

Your goal is to capture what the specification asks for, not to invent scope that is not there.

Guidelines:
1. State the objective in one or two sentences
2. List functional requirements as concrete, verifiable statements
3. List non-functional requirements (performance, security, reliability, operability)
4. List constraints the implementation must respect (technology, compatibility, deadlines)
5. List success criteria that would show the work is done

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Keep every list item self-contained and specific to this specification`
}

// buildParseUserPrompt creates the user prompt with the specification content
func buildParseUserPrompt(req *Request) string {
	return fmt.Sprintf(`Analyze the following %s specification and extract its structure.
%s
Specification:
%s

Output the analysis as JSON with this exact structure:
{
  "objective": "What this work is trying to achieve",
  "functional_requirements": ["Requirement 1", "Requirement 2"],
  "non_functional_requirements": ["Requirement 1"],
  "constraints": ["Constraint 1"],
  "success_criteria": ["Criterion 1"]
}

Important:
- Return ONLY the JSON, no additional text or markdown
- Use empty arrays for sections the specification does not cover
- Do not merge distinct requirements into one item`, req.SpecType, contextSection(req.ProjectContext), req.SpecificationContent)
}

// buildComponentsSystemPrompt creates the system prompt for component identification
func buildComponentsSystemPrompt() string {
	return `You are an expert software architect. Your task is to decompose an analyzed specification into implementable components.

Your goal is a set of components an engineering team could build and review independently.

Guidelines:
1. Size each component at one to three days of work for one engineer
2. Give each component a short unique name and a concrete description
3. Declare dependencies between components by name, only where one truly cannot start before another is done
4. Cover every functional requirement with at least one component
5. Prefer more small components over few large ones

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Dependency names must exactly match the name of another component in your answer`
}

// buildComponentsUserPrompt creates the user prompt with the parsed specification
func buildComponentsUserPrompt(parsed *ParsedSpecification, projectContext string) string {
	return fmt.Sprintf(`Decompose the following analyzed specification into implementable components.
%s
Objective:
%s

Functional requirements:
%s

Non-functional requirements:
%s

Constraints:
%s

Output the components as JSON with this exact structure:
{
  "components": [
    {
      "name": "auth-service",
      "description": "What this component does and its boundaries",
      "estimated_days": 2,
      "dependencies": ["other-component-name"]
    }
  ]
}

Important:
- Return ONLY the JSON, no additional text or markdown
- Order components so that dependencies come before their dependents where possible
- estimated_days must be between 1 and 3
- Use an empty array for components with no dependencies`, contextSection(projectContext), parsed.Objective,
		bulletList(parsed.FunctionalRequirements),
		bulletList(parsed.NonFunctionalRequirements),
		bulletList(parsed.Constraints))
}

// buildTicketsSystemPrompt creates the system prompt for ticket generation
func buildTicketsSystemPrompt() string {
	return `You are an expert engineering lead. Your task is to turn software components into actionable work tickets.

Your goal is tickets a developer could pick up and complete without asking what was meant.

Guidelines:
1. Produce exactly one ticket per component, keyed by the component name
2. Write an imperative title and a description that states scope and approach
3. Write acceptance criteria as checkable statements
4. Estimate in minutes of focused work, between 30 and 1440
5. Classify complexity as simple, medium, or complex
6. Mark parallelizable tickets and tickets an AI coding agent could complete
7. Name required expertise, a testing strategy, and a rollback plan

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Do NOT assign ticket numbers, epics, or dependencies; those are derived elsewhere`
}

// buildTicketsUserPrompt creates the user prompt for one batch of components
func buildTicketsUserPrompt(batch []Component, projectContext string) string {
	var sb strings.Builder
	for _, c := range batch {
		fmt.Fprintf(&sb, "- %s (%d days): %s\n", c.Name, c.EstimatedDays, c.Description)
	}

	return fmt.Sprintf(`Create one ticket for each of the following components.
%s
Components:
%s
Output the tickets as JSON with this exact structure:
{
  "tickets": [
    {
      "component": "auth-service",
      "title": "Implement the authentication service",
      "description": "Detailed description of the work",
      "acceptance_criteria": ["Criterion 1", "Criterion 2"],
      "estimated_minutes": 120,
      "complexity": "medium",
      "parallelizable": true,
      "ai_agent_capable": false,
      "required_expertise": ["backend", "security"],
      "testing_strategy": "How this ticket is verified",
      "rollback_plan": "How this change is undone if it fails"
    }
  ]
}

Important:
- Return ONLY the JSON, no additional text or markdown
- Include every listed component exactly once, with "component" matching its name exactly
- complexity must be one of: simple, medium, complex
- estimated_minutes must be a positive integer`, contextSection(projectContext), sb.String())
}

// buildEpicsSystemPrompt creates the system prompt for epic grouping
func buildEpicsSystemPrompt() string {
	return `You are an expert delivery manager. Your task is to group work tickets into epics.

Your goal is epics that read as coherent milestones, not arbitrary buckets.

Guidelines:
1. Group tickets that deliver one user-visible capability or one architectural layer
2. Give each epic a short title and a one-sentence description
3. Assign each ticket to at most one epic
4. Leave a ticket out of every epic rather than force it into a poor fit

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Reference tickets only by the numbers given`
}

// buildEpicsUserPrompt creates the user prompt with the ticket list
func buildEpicsUserPrompt(tickets []ticket.Ticket, maxPerEpic int) string {
	var sb strings.Builder
	for _, t := range tickets {
		fmt.Fprintf(&sb, "- #%d: %s (%s, %d min)\n", t.TicketNumber, t.Title, t.Complexity, t.EstimatedMinutes)
	}

	return fmt.Sprintf(`Group the following tickets into epics.

Tickets:
%s
Output the epics as JSON with this exact structure:
{
  "epics": [
    {
      "title": "Authentication",
      "description": "Everything needed to sign users in",
      "ticket_numbers": [1, 2, 5]
    }
  ]
}

Important:
- Return ONLY the JSON, no additional text or markdown
- A ticket number may appear in at most one epic
- Put at most %d tickets in one epic
- Do not invent ticket numbers that are not listed`, sb.String(), maxPerEpic)
}

// buildSummarySystemPrompt creates the system prompt for the executive summary
func buildSummarySystemPrompt() string {
	return `You are an expert technical writer. Your task is to write an executive summary of an engineering plan for a non-engineering audience.

Guidelines:
1. Open with what is being built and why it matters
2. Describe the shape of the work: epics, ticket count, total effort
3. Call out the critical path and the biggest risks
4. Keep it under one page of markdown

Output Requirements:
- Return ONLY the markdown document, no preamble and no code fences`
}

// buildSummaryUserPrompt creates the user prompt with the plan overview
func buildSummaryUserPrompt(result *Result) string {
	return fmt.Sprintf(`Write an executive summary for the plan "%s".

%s`, result.PlanName, planOverview(result))
}

// buildExecutionPlanSystemPrompt creates the system prompt for the execution plan
func buildExecutionPlanSystemPrompt() string {
	return `You are an expert engineering program manager. Your task is to write an execution plan for an engineering team about to start a project.

Guidelines:
1. Walk through the parallel execution tracks in order
2. For each track, explain what it delivers and what it waits on
3. Highlight the critical path tickets and why slipping them slips the plan
4. Name the blocker tickets that should be staffed first

Output Requirements:
- Return ONLY the markdown document, no preamble and no code fences`
}

// buildExecutionPlanUserPrompt creates the user prompt with the scheduling output
func buildExecutionPlanUserPrompt(result *Result) string {
	return fmt.Sprintf(`Write an execution plan for "%s".

%s`, result.PlanName, planOverview(result))
}

// planOverview renders the plan facts shared by both document prompts
func planOverview(result *Result) string {
	var sb strings.Builder

	byNumber := ticket.ByNumber(result.Tickets)

	fmt.Fprintf(&sb, "Tickets (%d total):\n", len(result.Tickets))
	for _, t := range result.Tickets {
		fmt.Fprintf(&sb, "- #%d: %s (%d min, %s)\n", t.TicketNumber, t.Title, t.EstimatedMinutes, t.Complexity)
	}

	if len(result.Epics) > 0 {
		fmt.Fprintf(&sb, "\nEpics (%d total):\n", len(result.Epics))
		for _, e := range result.Epics {
			fmt.Fprintf(&sb, "- %s: tickets %s\n", e.Title, joinNumbers(e.TicketNumbers))
		}
	}

	if result.Graph != nil {
		fmt.Fprintf(&sb, "\nCritical path (%d min): %s\n", result.Graph.CriticalPathMinutes, joinNumbers(result.Graph.CriticalPath))
		if len(result.Graph.Blockers) > 0 {
			fmt.Fprintf(&sb, "Top blockers: %s\n", joinNumbers(result.Graph.Blockers))
		}
	}

	if result.Schedule != nil {
		fmt.Fprintf(&sb, "\nExecution tracks (%d min wall time):\n", result.Schedule.MakespanMinutes)
		for _, track := range result.Schedule.Tracks {
			fmt.Fprintf(&sb, "- Track %d (%d min): %s\n", track.TrackID, track.TotalMinutes, trackSummary(track, byNumber))
		}
	}

	return sb.String()
}

func trackSummary(track schedule.Track, byNumber map[int]*ticket.Ticket) string {
	parts := make([]string, 0, len(track.TicketNumbers))
	for _, n := range track.TicketNumbers {
		if t, ok := byNumber[n]; ok {
			parts = append(parts, fmt.Sprintf("#%d %s", n, t.Title))
		} else {
			parts = append(parts, fmt.Sprintf("#%d", n))
		}
	}
	return strings.Join(parts, ", ")
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return strings.Join(parts, ", ")
}

// bulletList renders items as "- item" lines for user prompts
func bulletList(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = "- " + item
	}
	return strings.Join(parts, "\n")
}

// contextSection renders the optional project context block for user prompts
func contextSection(projectContext string) string {
	if projectContext == "" {
		return ""
	}
	return fmt.Sprintf("\nProject context:\n%s\n", projectContext)
}
