package graph

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

// Build analyzes ticket dependencies and returns the dependency graph.
// Identical input always yields an identical graph:
//
//  1. Dependencies on unknown ticket numbers are dropped with a warning.
//  2. Cycles are broken by removing, per cycle, the edge whose source has
//     the highest ticket number (the most recently declared dependency),
//     each removal recorded as a warning.
//  3. The critical path, parallel groups, and blocker ranking are computed
//     over the resulting acyclic graph.
//
// blockerLimit caps the blocker ranking; values below 1 use
// DefaultBlockerLimit.
func Build(tickets []ticket.Ticket, blockerLimit int) *Graph {
	if blockerLimit < 1 {
		blockerLimit = DefaultBlockerLimit
	}

	b := newBuilder(tickets)
	b.breakCycles()

	order := b.topoOrder()

	g := &Graph{
		Nodes:          b.nodes,
		Edges:          b.edgeList(),
		ParallelGroups: b.parallelGroups(order),
		Blockers:       b.blockers(blockerLimit),
		Warnings:       b.warnings,
	}
	g.CriticalPath, g.CriticalPathMinutes = b.criticalPath(order)
	return g
}

// builder holds the mutable adjacency state while the graph is normalized.
// deps maps a ticket to the tickets it depends on, sorted ascending so every
// traversal is deterministic.
type builder struct {
	nodes    []int
	deps     map[int][]int
	minutes  map[int]int
	warnings []ticket.Warning
}

func newBuilder(tickets []ticket.Ticket) *builder {
	b := &builder{
		deps:    make(map[int][]int, len(tickets)),
		minutes: make(map[int]int, len(tickets)),
	}

	known := make(map[int]bool, len(tickets))
	for i := range tickets {
		known[tickets[i].TicketNumber] = true
	}

	for i := range tickets {
		t := &tickets[i]
		b.nodes = append(b.nodes, t.TicketNumber)
		b.minutes[t.TicketNumber] = t.EstimatedMinutes

		seen := make(map[int]bool, len(t.Dependencies))
		var deps []int
		for _, dep := range t.Dependencies {
			if !known[dep] {
				b.warnings = append(b.warnings, ticket.Warning{
					Code:         ticket.WarnUnresolvedDependency,
					TicketNumber: t.TicketNumber,
					Message:      fmt.Sprintf("ticket %d depends on unknown ticket %d, dependency dropped", t.TicketNumber, dep),
				})
				continue
			}
			if dep == t.TicketNumber || seen[dep] {
				continue
			}
			seen[dep] = true
			deps = append(deps, dep)
		}
		sort.Ints(deps)
		b.deps[t.TicketNumber] = deps
	}

	sort.Ints(b.nodes)
	return b
}

// breakCycles removes one edge per detected cycle until the graph is acyclic
func (b *builder) breakCycles() {
	for {
		cycle := b.detectCycle()
		if cycle == nil {
			return
		}

		from, to := breakEdge(cycle)
		b.removeDep(from, to)
		b.warnings = append(b.warnings, ticket.Warning{
			Code:         ticket.WarnCycleBroken,
			TicketNumber: from,
			Message:      fmt.Sprintf("dependency cycle %v broken by removing dependency of ticket %d on ticket %d", cycle, from, to),
		})
	}
}

// detectCycle returns the nodes of one cycle in dependency order, or nil if
// the graph is acyclic. Uses DFS with coloring: white (unvisited), gray (in
// progress), black (done). The cycle's edges are the consecutive pairs plus
// the closing edge from the last node back to the first.
func (b *builder) detectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[int]int, len(b.nodes))
	parent := make(map[int]int)

	var dfs func(node int) []int
	dfs = func(node int) []int {
		color[node] = gray
		for _, next := range b.deps[node] {
			if color[next] == gray {
				// Walk the parent chain back to the re-entered node
				path := []int{node}
				for cur := node; cur != next; {
					cur = parent[cur]
					path = append(path, cur)
				}
				// Reverse so consecutive pairs follow edge direction
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, node := range b.nodes {
		if color[node] == white {
			if cycle := dfs(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// breakEdge picks the cycle edge to remove: the one whose source ticket
// number is highest
func breakEdge(cycle []int) (from, to int) {
	from, to = cycle[len(cycle)-1], cycle[0]
	for i := 0; i+1 < len(cycle); i++ {
		if cycle[i] > from {
			from, to = cycle[i], cycle[i+1]
		}
	}
	return from, to
}

func (b *builder) removeDep(from, to int) {
	deps := b.deps[from]
	for i, dep := range deps {
		if dep == to {
			b.deps[from] = append(deps[:i], deps[i+1:]...)
			return
		}
	}
}

func (b *builder) edgeList() []Edge {
	var edges []Edge
	for _, node := range b.nodes {
		for _, dep := range b.deps[node] {
			edges = append(edges, Edge{From: node, To: dep})
		}
	}
	return edges
}
