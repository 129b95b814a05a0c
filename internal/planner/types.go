package planner

import (
	"time"

	"github.com/felixgeelhaar/ticketforge/internal/graph"
	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/schedule"
	"github.com/felixgeelhaar/ticketforge/internal/specdoc"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

// Request starts one planning run
type Request struct {
	SpecificationID      string
	SpecificationContent string
	SpecType             specdoc.Type
	ProjectContext       string
	PlanNamePrefix       string
}

// ParsedSpecification is the structured reading of the raw specification
// produced by the parse stage
type ParsedSpecification struct {
	Objective                 string   `json:"objective"`
	FunctionalRequirements    []string `json:"functional_requirements"`
	NonFunctionalRequirements []string `json:"non_functional_requirements,omitempty"`
	Constraints               []string `json:"constraints,omitempty"`
	SuccessCriteria           []string `json:"success_criteria,omitempty"`
}

// Component is an implementable unit proposed by the components stage,
// sized at one to three days. Components exist only within a run; the
// tickets generated from them are the durable output. Dependencies name
// other components.
type Component struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	EstimatedDays int      `json:"estimated_days"`
	Dependencies  []string `json:"dependencies,omitempty"`
}

// StoredDocument is a document the run persisted through the store
type StoredDocument struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// Result is the terminal aggregate of a successful run. It is immutable
// once returned; a failed run produces no Result at all.
type Result struct {
	RunID             string              `json:"run_id"`
	SpecificationID   string              `json:"specification_id"`
	SpecificationHash string              `json:"specification_hash"`
	PlanName          string              `json:"plan_name"`
	CreatedAt         time.Time           `json:"created_at"`
	Tickets           []ticket.Ticket     `json:"tickets"`
	Epics             []ticket.Epic       `json:"epics"`
	Graph             *graph.Graph        `json:"graph"`
	Schedule          *schedule.Schedule  `json:"schedule"`
	Documents         []StoredDocument    `json:"documents,omitempty"`
	Usage             *router.UsageReport `json:"usage"`
	Warnings          []ticket.Warning    `json:"warnings,omitempty"`
	Duration          time.Duration       `json:"duration"`
}
