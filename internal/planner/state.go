package planner

import "slices"

// Stage identifies one step of the planning pipeline
type Stage string

const (
	StageParse      Stage = "PARSE"
	StageComponents Stage = "COMPONENTS"
	StageTickets    Stage = "TICKETS"
	StageEpics      Stage = "EPICS"
	StageGraph      Stage = "GRAPH"
	StageSchedule   Stage = "SCHEDULE"
	StageDocuments  Stage = "DOCUMENTS"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// PipelineStages lists the working stages in execution order
var PipelineStages = []Stage{
	StageParse,
	StageComponents,
	StageTickets,
	StageEpics,
	StageGraph,
	StageSchedule,
	StageDocuments,
}

// validTransitions is the canonical state machine: strictly linear, with
// FAILED reachable from every working stage and no way out of a terminal
// stage.
var validTransitions = map[Stage][]Stage{
	StageParse:      {StageComponents, StageFailed},
	StageComponents: {StageTickets, StageFailed},
	StageTickets:    {StageEpics, StageFailed},
	StageEpics:      {StageGraph, StageFailed},
	StageGraph:      {StageSchedule, StageFailed},
	StageSchedule:   {StageDocuments, StageFailed},
	StageDocuments:  {StageDone, StageFailed},
	StageDone:       {},
	StageFailed:     {},
}

// CanTransition reports whether moving between two stages is legal
func CanTransition(from, to Stage) bool {
	return slices.Contains(validTransitions[from], to)
}

// IsTerminal reports whether the stage ends the run
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}
