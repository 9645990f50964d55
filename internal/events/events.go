// Package events defines the progress events published on a compile
// run's broker topic: one pair per pipeline phase, so a CLI or a
// future long-lived watch process can observe a compilation without
// the core depending on any particular subscriber.
package events

// Phase names one stage of the compiler pipeline, in execution order.
type Phase string

const (
	PhaseTokenize Phase = "tokenize"
	PhaseParse    Phase = "parse"
	PhaseMerge    Phase = "merge"
	PhaseValidate Phase = "validate"
	PhaseResolve  Phase = "resolve"
	PhaseEmit     Phase = "emit"
)

// Topic returns the per-run publish/subscribe topic for runID.
func Topic(runID string) string { return "/kiln/compile/" + runID }

// PhaseStarted is published when a pipeline phase begins.
type PhaseStarted struct {
	RunID string
	Phase Phase
}

// PhaseCompleted is published when a pipeline phase finishes
// successfully.
type PhaseCompleted struct {
	RunID string
	Phase Phase
}

// CompileFailed is published once, in place of the remaining phases'
// events, when any phase returns an error.
type CompileFailed struct {
	RunID string
	Phase Phase
	Error error
}

// CompileSucceeded is published after the emission driver completes
// without error.
type CompileSucceeded struct {
	RunID          string
	DeclarationCount int
}
