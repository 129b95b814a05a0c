package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ClampsEstimates(t *testing.T) {
	tickets := []Ticket{
		{TicketNumber: 1, Title: "Zero estimate", EstimatedMinutes: 0},
		{TicketNumber: 2, Title: "Negative estimate", EstimatedMinutes: -30},
		{TicketNumber: 3, Title: "Oversized estimate", EstimatedMinutes: 10000},
		{TicketNumber: 4, Title: "Valid estimate", EstimatedMinutes: 90},
	}

	warnings := Normalize(tickets)

	assert.Equal(t, DefaultEstimateMinutes, tickets[0].EstimatedMinutes)
	assert.Equal(t, DefaultEstimateMinutes, tickets[1].EstimatedMinutes)
	assert.Equal(t, MaxEstimateMinutes, tickets[2].EstimatedMinutes)
	assert.Equal(t, 90, tickets[3].EstimatedMinutes)

	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Equal(t, WarnEstimateClamped, w.Code)
	}
	assert.Equal(t, 1, warnings[0].TicketNumber)
	assert.Equal(t, 2, warnings[1].TicketNumber)
	assert.Equal(t, 3, warnings[2].TicketNumber)
}

func TestNormalize_CleansDependencies(t *testing.T) {
	tickets := []Ticket{
		{TicketNumber: 5, EstimatedMinutes: 60, Dependencies: []int{3, 5, 1, 3, 2}},
		{TicketNumber: 6, EstimatedMinutes: 60, Dependencies: []int{6}},
		{TicketNumber: 7, EstimatedMinutes: 60},
	}

	warnings := Normalize(tickets)

	assert.Empty(t, warnings)
	assert.Equal(t, []int{1, 2, 3}, tickets[0].Dependencies, "deduplicated, self-reference dropped, sorted")
	assert.Nil(t, tickets[1].Dependencies, "pure self-reference becomes empty")
	assert.Nil(t, tickets[2].Dependencies)
}

func TestNormalize_DefaultsComplexityAndStatus(t *testing.T) {
	tickets := []Ticket{
		{TicketNumber: 1, EstimatedMinutes: 60, Complexity: "extreme"},
		{TicketNumber: 2, EstimatedMinutes: 60, Complexity: ComplexitySimple, Status: StatusInProgress},
	}

	Normalize(tickets)

	assert.Equal(t, ComplexityMedium, tickets[0].Complexity)
	assert.Equal(t, StatusTodo, tickets[0].Status)
	assert.Equal(t, ComplexitySimple, tickets[1].Complexity)
	assert.Equal(t, StatusInProgress, tickets[1].Status)
}

func TestByNumber(t *testing.T) {
	tickets := []Ticket{
		{TicketNumber: 1, Title: "First"},
		{TicketNumber: 4, Title: "Fourth"},
	}

	index := ByNumber(tickets)

	require.Len(t, index, 2)
	assert.Equal(t, "First", index[1].Title)
	assert.Equal(t, "Fourth", index[4].Title)
	assert.Nil(t, index[2])

	// Index points into the slice, not at copies
	index[1].Status = StatusDone
	assert.Equal(t, StatusDone, tickets[0].Status)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple title", title: "Add login flow", want: "add-login-flow"},
		{name: "punctuation collapsed", title: "Fix: user's #1 bug!!", want: "fix-user-s-1-bug"},
		{name: "mixed case", title: "OAuth2 Token Refresh", want: "oauth2-token-refresh"},
		{name: "leading and trailing junk", title: "  --Deploy it--  ", want: "deploy-it"},
		{name: "empty", title: "", want: "ticket"},
		{name: "only punctuation", title: "!!!", want: "ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_TruncatesLongTitles(t *testing.T) {
	title := "Implement the extremely detailed and thoroughly specified onboarding workflow"

	slug := Slugify(title)

	assert.LessOrEqual(t, len(slug), MaxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"), "no trailing hyphen after truncation")
	assert.True(t, strings.HasPrefix(slug, "implement-the-extremely"))
}

func TestDocumentFilename(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		ticket Ticket
		want   string
	}{
		{
			name:   "ticket in epic",
			prefix: "CC",
			ticket: Ticket{TicketNumber: 7, EpicNumber: 2, Title: "Add login flow"},
			want:   "CC-007-02-add-login-flow.md",
		},
		{
			name:   "ticket without epic",
			prefix: "CC",
			ticket: Ticket{TicketNumber: 12, EpicNumber: 0, Title: "Wire up metrics"},
			want:   "CC-012-00-wire-up-metrics.md",
		},
		{
			name:   "three digit ticket number",
			prefix: "PAY",
			ticket: Ticket{TicketNumber: 104, EpicNumber: 11, Title: "Refund ledger"},
			want:   "PAY-104-11-refund-ledger.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentFilename(tt.prefix, &tt.ticket))
		})
	}
}
