// Package schedule distributes tickets across parallel execution tracks
// using longest-processing-time-first list scheduling. Like the graph
// engine it is pure computation; identical input yields identical output.
package schedule

import (
	"sort"

	"github.com/felixgeelhaar/ticketforge/internal/graph"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

// DefaultTracks is the number of parallel tracks when the caller does not
// configure one
const DefaultTracks = 3

// Track is one parallel lane of work. TotalMinutes sums the estimates of
// the assigned tickets; waiting for dependencies on other tracks is not
// included.
type Track struct {
	TrackID       int   `json:"track_id"`
	TicketNumbers []int `json:"ticket_numbers"`
	TotalMinutes  int   `json:"total_minutes"`
}

// Schedule is the full track assignment. MakespanMinutes is the simulated
// wall time until the last ticket completes, including any time tracks
// spend blocked on dependencies.
type Schedule struct {
	Tracks          []Track `json:"tracks"`
	MakespanMinutes int     `json:"makespan_minutes"`
}

// Assign schedules tickets onto trackCount parallel tracks. Parallel groups
// are processed in level order; within a group tickets are taken longest
// estimate first (ties toward the lower ticket number) and each goes to the
// track with the lowest cumulative estimated duration (ties toward the
// lower track). A ticket never starts before every dependency has completed
// in simulated time, so a track may sit idle waiting on another track.
// Dependencies come from the graph's resolved edges, not the raw ticket
// declarations, so dropped and cycle-broken dependencies are not waited on.
func Assign(tickets []ticket.Ticket, g *graph.Graph, trackCount int) *Schedule {
	if trackCount < 1 {
		trackCount = DefaultTracks
	}

	byNumber := ticket.ByNumber(tickets)
	deps := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		deps[e.From] = append(deps[e.From], e.To)
	}

	tracks := make([]Track, trackCount)
	for i := range tracks {
		tracks[i].TrackID = i + 1
	}

	trackEnd := make([]int, trackCount)
	finish := make(map[int]int, len(g.Nodes))

	for _, group := range g.ParallelGroups {
		ordered := append([]int(nil), group...)
		sort.Slice(ordered, func(i, j int) bool {
			ti, tj := byNumber[ordered[i]], byNumber[ordered[j]]
			if ti.EstimatedMinutes != tj.EstimatedMinutes {
				return ti.EstimatedMinutes > tj.EstimatedMinutes
			}
			return ordered[i] < ordered[j]
		})

		for _, num := range ordered {
			target := 0
			for i := 1; i < trackCount; i++ {
				if tracks[i].TotalMinutes < tracks[target].TotalMinutes {
					target = i
				}
			}

			start := trackEnd[target]
			for _, dep := range deps[num] {
				if finish[dep] > start {
					start = finish[dep]
				}
			}

			minutes := byNumber[num].EstimatedMinutes
			finish[num] = start + minutes
			trackEnd[target] = finish[num]
			tracks[target].TicketNumbers = append(tracks[target].TicketNumbers, num)
			tracks[target].TotalMinutes += minutes
		}
	}

	makespan := 0
	for _, end := range trackEnd {
		if end > makespan {
			makespan = end
		}
	}

	return &Schedule{Tracks: tracks, MakespanMinutes: makespan}
}
