// Package ticket holds the planning domain types shared by the pipeline
// stages: tickets, epics, and the warnings stages attach to a plan.
package ticket

import (
	"fmt"
	"sort"
)

// Complexity classifies implementation effort
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// IsValid reports whether c is a known complexity level
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// Status is the workflow state of a ticket
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Estimate bounds in minutes. The ceiling is three working days at eight
// hours; anything larger should have been split into multiple components.
const (
	MinEstimateMinutes     = 1
	MaxEstimateMinutes     = 1440
	DefaultEstimateMinutes = 60
)

// Ticket is a single unit of planned work. TicketNumber is unique within a
// run and assigned in component order, never by the generation service.
type Ticket struct {
	TicketNumber       int        `json:"ticket_number"`
	EpicNumber         int        `json:"epic_number"` // 0 = not assigned to any epic
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	AcceptanceCriteria []string   `json:"acceptance_criteria,omitempty"`
	EstimatedMinutes   int        `json:"estimated_minutes"`
	Complexity         Complexity `json:"complexity"`
	Parallelizable     bool       `json:"parallelizable"`
	AIAgentCapable     bool       `json:"ai_agent_capable"`
	RequiredExpertise  []string   `json:"required_expertise,omitempty"`
	TestingStrategy    string     `json:"testing_strategy,omitempty"`
	RollbackPlan       string     `json:"rollback_plan,omitempty"`
	Status             Status     `json:"status"`
	Dependencies       []int      `json:"dependencies,omitempty"` // ticket numbers this ticket depends on
}

// Epic groups related tickets. A ticket belongs to at most one epic.
type Epic struct {
	EpicNumber    int    `json:"epic_number"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	TicketNumbers []int  `json:"ticket_numbers"`
}

// Warning codes attached to a plan. Warnings never fail a run.
const (
	WarnEstimateClamped      = "ESTIMATE_CLAMPED"
	WarnUnresolvedDependency = "UNRESOLVED_DEPENDENCY"
	WarnCycleBroken          = "CYCLE_BROKEN"
	WarnEpicOverflow         = "EPIC_OVERFLOW"
	WarnEpicConflict         = "EPIC_CONFLICT"
	WarnDocumentStoreFailed  = "DOCUMENT_STORE_FAILED"
)

// Warning records a non-fatal defect found while building a plan
type Warning struct {
	Code         string `json:"code"` // ESTIMATE_CLAMPED, CYCLE_BROKEN, etc.
	TicketNumber int    `json:"ticket_number,omitempty"`
	Message      string `json:"message"`
}

// Normalize repairs generated ticket fields in place and returns warnings
// for repairs worth surfacing. Estimates are clamped to
// [MinEstimateMinutes, MaxEstimateMinutes] with non-positive values treated
// as DefaultEstimateMinutes. Dependency lists are deduplicated, sorted, and
// stripped of self references. Unknown complexity falls back to medium and
// missing status to todo.
func Normalize(tickets []Ticket) []Warning {
	var warnings []Warning

	for i := range tickets {
		t := &tickets[i]

		switch {
		case t.EstimatedMinutes <= 0:
			warnings = append(warnings, Warning{
				Code:         WarnEstimateClamped,
				TicketNumber: t.TicketNumber,
				Message:      fmt.Sprintf("estimate %d minutes is not positive, using %d", t.EstimatedMinutes, DefaultEstimateMinutes),
			})
			t.EstimatedMinutes = DefaultEstimateMinutes
		case t.EstimatedMinutes > MaxEstimateMinutes:
			warnings = append(warnings, Warning{
				Code:         WarnEstimateClamped,
				TicketNumber: t.TicketNumber,
				Message:      fmt.Sprintf("estimate %d minutes exceeds %d, clamping", t.EstimatedMinutes, MaxEstimateMinutes),
			})
			t.EstimatedMinutes = MaxEstimateMinutes
		}

		if !t.Complexity.IsValid() {
			t.Complexity = ComplexityMedium
		}
		if t.Status == "" {
			t.Status = StatusTodo
		}

		t.Dependencies = normalizeDeps(t.TicketNumber, t.Dependencies)
	}

	return warnings
}

func normalizeDeps(self int, deps []int) []int {
	if len(deps) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(deps))
	cleaned := make([]int, 0, len(deps))
	for _, dep := range deps {
		if dep == self || seen[dep] {
			continue
		}
		seen[dep] = true
		cleaned = append(cleaned, dep)
	}
	if len(cleaned) == 0 {
		return nil
	}

	sort.Ints(cleaned)
	return cleaned
}

// ByNumber returns tickets indexed by ticket number
func ByNumber(tickets []Ticket) map[int]*Ticket {
	index := make(map[int]*Ticket, len(tickets))
	for i := range tickets {
		index[tickets[i].TicketNumber] = &tickets[i]
	}
	return index
}
