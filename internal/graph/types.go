// Package graph derives the dependency structure of a plan: resolved edges,
// critical path, parallel execution groups, and blocker ranking. All of it is
// computed deterministically from ticket data; nothing here calls the
// generation service.
package graph

import "github.com/felixgeelhaar/ticketforge/internal/ticket"

// Edge is a single dependency: From depends on To
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the analyzed dependency structure of a set of tickets. It is
// always acyclic; cycles in the declared dependencies are broken during
// construction and reported as warnings.
type Graph struct {
	Nodes               []int            `json:"nodes"`
	Edges               []Edge           `json:"edges"`
	CriticalPath        []int            `json:"critical_path"`
	CriticalPathMinutes int              `json:"critical_path_minutes"`
	ParallelGroups      [][]int          `json:"parallel_groups"`
	Blockers            []int            `json:"blockers,omitempty"`
	Warnings            []ticket.Warning `json:"warnings,omitempty"`
}

// DefaultBlockerLimit is how many top blocking tickets are reported
const DefaultBlockerLimit = 5
