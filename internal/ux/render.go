package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/ticketforge/internal/planner"
)

// palette holds the styles used by the text renderer. A no-color palette
// uses unstyled lipgloss styles so the layout stays identical.
type palette struct {
	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	warn   lipgloss.Style
	ok     lipgloss.Style
}

func newPalette(noColor bool) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{title: plain, header: plain, label: plain, warn: plain, ok: plain}
	}
	return palette{
		title:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// RenderResult renders a planning result as a styled terminal summary.
// JSON and YAML output go through the formatters instead; this is the
// human-facing view.
func RenderResult(res *planner.Result, noColor bool) string {
	p := newPalette(noColor)
	var b strings.Builder

	b.WriteString(p.title.Render(fmt.Sprintf("📋 Plan %s", res.PlanName)) + "\n")
	b.WriteString(fmt.Sprintf("   %s %s\n", p.label.Render("Run:"), res.RunID))
	b.WriteString(fmt.Sprintf("   %s %s (hash %s)\n", p.label.Render("Specification:"), res.SpecificationID, shortHash(res.SpecificationHash)))
	b.WriteString(fmt.Sprintf("   %s %s\n", p.label.Render("Created:"), res.CreatedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", p.label.Render("Duration:"), res.Duration.Round(time.Millisecond)))

	b.WriteString(p.header.Render(fmt.Sprintf("Tickets (%d)", len(res.Tickets))) + "\n")
	for _, t := range res.Tickets {
		epic := "---"
		if t.EpicNumber > 0 {
			epic = fmt.Sprintf("E%02d", t.EpicNumber)
		}
		b.WriteString(fmt.Sprintf("  #%03d [%s] %-36s %-7s %5s  deps: %s\n",
			t.TicketNumber,
			epic,
			truncate(t.Title, 36),
			t.Complexity,
			fmt.Sprintf("%dm", t.EstimatedMinutes),
			depsLabel(t.Dependencies),
		))
	}
	b.WriteString("\n")

	if len(res.Epics) > 0 {
		b.WriteString(p.header.Render(fmt.Sprintf("Epics (%d)", len(res.Epics))) + "\n")
		for _, e := range res.Epics {
			b.WriteString(fmt.Sprintf("  #%02d %-30s %d tickets: %s\n",
				e.EpicNumber, truncate(e.Title, 30), len(e.TicketNumbers), joinInts(e.TicketNumbers)))
		}
		b.WriteString("\n")
	}

	if g := res.Graph; g != nil {
		b.WriteString(p.header.Render("Dependency graph") + "\n")
		b.WriteString(fmt.Sprintf("  Critical path: %s (%dm)\n", joinPath(g.CriticalPath), g.CriticalPathMinutes))
		groups := make([]string, len(g.ParallelGroups))
		for i, grp := range g.ParallelGroups {
			groups[i] = "[" + joinInts(grp) + "]"
		}
		b.WriteString(fmt.Sprintf("  Parallel groups: %s\n", strings.Join(groups, " ")))
		if len(g.Blockers) > 0 {
			b.WriteString(fmt.Sprintf("  Top blockers: %s\n", joinInts(g.Blockers)))
		}
		b.WriteString("\n")
	}

	if s := res.Schedule; s != nil {
		b.WriteString(p.header.Render(fmt.Sprintf("Schedule (%d tracks, makespan %dm)", len(s.Tracks), s.MakespanMinutes)) + "\n")
		for _, track := range s.Tracks {
			b.WriteString(fmt.Sprintf("  Track %d: %d tickets, %dm: %s\n",
				track.TrackID, len(track.TicketNumbers), track.TotalMinutes, joinInts(track.TicketNumbers)))
		}
		b.WriteString("\n")
	}

	if len(res.Documents) > 0 {
		b.WriteString(p.header.Render(fmt.Sprintf("Documents (%d)", len(res.Documents))) + "\n")
		for _, doc := range res.Documents {
			b.WriteString(fmt.Sprintf("  %s\n", doc.Path))
		}
		b.WriteString("\n")
	}

	if len(res.Warnings) > 0 {
		b.WriteString(p.warn.Render(fmt.Sprintf("Warnings (%d)", len(res.Warnings))) + "\n")
		for _, w := range res.Warnings {
			if w.TicketNumber > 0 {
				b.WriteString(fmt.Sprintf("  ⚠ %s (ticket %d): %s\n", w.Code, w.TicketNumber, w.Message))
			} else {
				b.WriteString(fmt.Sprintf("  ⚠ %s: %s\n", w.Code, w.Message))
			}
		}
		b.WriteString("\n")
	}

	if u := res.Usage; u != nil {
		b.WriteString(p.header.Render("Usage") + "\n")
		b.WriteString(fmt.Sprintf("  %d calls, %d in / %d out tokens, $%.4f\n",
			u.TotalCalls, u.TotalInputTokens, u.TotalOutputTokens, u.TotalCostUSD))
		for _, stage := range planner.PipelineStages {
			su, seen := u.Stages[string(stage)]
			if !seen {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %d calls, $%.4f\n",
				p.label.Render(fmt.Sprintf("%-11s", string(stage))), su.Calls, su.CostUSD))
		}
	}

	return b.String()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}

func depsLabel(deps []int) string {
	if len(deps) == 0 {
		return "none"
	}
	return joinInts(deps)
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

func joinPath(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " -> ")
}
