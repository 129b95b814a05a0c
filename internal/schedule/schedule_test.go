package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ticketforge/internal/graph"
	"github.com/felixgeelhaar/ticketforge/internal/ticket"
)

func testTicket(num, minutes int, deps ...int) ticket.Ticket {
	return ticket.Ticket{
		TicketNumber:     num,
		Title:            fmt.Sprintf("Ticket %d", num),
		EstimatedMinutes: minutes,
		Dependencies:     deps,
	}
}

func buildAndAssign(t *testing.T, tickets []ticket.Ticket, trackCount int) *Schedule {
	t.Helper()
	g := graph.Build(tickets, 0)
	return Assign(tickets, g, trackCount)
}

func TestAssign_BalancesByLongestFirst(t *testing.T) {
	tickets := []ticket.Ticket{
		testTicket(1, 50),
		testTicket(2, 30),
		testTicket(3, 20),
		testTicket(4, 10),
	}

	s := buildAndAssign(t, tickets, 2)

	require.Len(t, s.Tracks, 2)
	// Longest first: 50 -> track 1, 30 -> track 2, 20 -> track 2 (30 < 50),
	// 10 -> track 1 on the 50 vs 50 tie.
	assert.Equal(t, []int{1, 4}, s.Tracks[0].TicketNumbers)
	assert.Equal(t, []int{2, 3}, s.Tracks[1].TicketNumbers)
	assert.Equal(t, 60, s.Tracks[0].TotalMinutes)
	assert.Equal(t, 50, s.Tracks[1].TotalMinutes)
	assert.Equal(t, 60, s.MakespanMinutes)
}

func TestAssign_WaitsForDependenciesAcrossTracks(t *testing.T) {
	tickets := []ticket.Ticket{
		testTicket(1, 60),
		testTicket(2, 30),
		testTicket(3, 45, 1, 2),
	}

	s := buildAndAssign(t, tickets, 2)

	// Ticket 3 lands on track 2 (load 30 vs 60) but cannot start until
	// ticket 1 finishes at minute 60, so it completes at 105.
	require.Len(t, s.Tracks, 2)
	assert.Equal(t, []int{2, 3}, s.Tracks[1].TicketNumbers)
	assert.Equal(t, 75, s.Tracks[1].TotalMinutes)
	assert.Equal(t, 105, s.MakespanMinutes)
}

func TestAssign_EveryTicketExactlyOnce(t *testing.T) {
	tickets := []ticket.Ticket{
		testTicket(1, 45),
		testTicket(2, 120, 1),
		testTicket(3, 30, 1),
		testTicket(4, 90, 2, 3),
		testTicket(5, 60, 3),
		testTicket(6, 15, 4, 5),
		testTicket(7, 200),
	}

	s := buildAndAssign(t, tickets, 3)

	seen := make(map[int]int)
	for _, track := range s.Tracks {
		for _, num := range track.TicketNumbers {
			seen[num]++
		}
	}
	require.Len(t, seen, len(tickets))
	for num, count := range seen {
		assert.Equal(t, 1, count, "ticket %d assigned %d times", num, count)
	}
}

func TestAssign_DefaultTrackCount(t *testing.T) {
	tickets := []ticket.Ticket{testTicket(1, 60)}

	s := buildAndAssign(t, tickets, 0)

	assert.Len(t, s.Tracks, DefaultTracks)
	assert.Equal(t, 1, s.Tracks[0].TrackID)
	assert.Equal(t, 3, s.Tracks[2].TrackID)
}

func TestAssign_SingleTrackIsSequential(t *testing.T) {
	tickets := []ticket.Ticket{
		testTicket(1, 60),
		testTicket(2, 30),
		testTicket(3, 45, 1),
	}

	s := buildAndAssign(t, tickets, 1)

	require.Len(t, s.Tracks, 1)
	assert.Equal(t, 135, s.Tracks[0].TotalMinutes)
	assert.Equal(t, 135, s.MakespanMinutes)
}

func TestAssign_IgnoresDroppedDependencies(t *testing.T) {
	// Ticket 2 declares a dependency on an unknown ticket; the graph drops
	// it, so the scheduler must not wait on it either.
	tickets := []ticket.Ticket{
		testTicket(1, 60),
		testTicket(2, 30, 99),
	}

	s := buildAndAssign(t, tickets, 2)

	assert.Equal(t, 60, s.MakespanMinutes)
}

func TestAssign_Deterministic(t *testing.T) {
	tickets := []ticket.Ticket{
		testTicket(1, 45),
		testTicket(2, 120, 1),
		testTicket(3, 30, 1),
		testTicket(4, 90, 2, 3),
		testTicket(5, 60, 3),
		testTicket(6, 15, 4, 5),
		testTicket(7, 200),
		testTicket(8, 10, 7, 6),
	}

	first := buildAndAssign(t, tickets, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, buildAndAssign(t, tickets, 3), "run %d differed", i)
	}
}
