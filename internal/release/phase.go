package release

import "log/slog"

// Identifies where a run is in the pipeline.
//
// Phases advance linearly from [PhaseInit] to [PhaseDone]. [PhaseFailed]
// is the single terminal failure phase, reachable from any non-terminal
// phase; reaching it still triggers best-effort workspace teardown.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseVersionRead
	PhaseWorkspaceCreated
	PhaseStaged
	PhaseBuilt
	PhaseArchived
	PhaseCleaned
	PhaseDone
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseInit:             "init",
	PhaseVersionRead:      "version-read",
	PhaseWorkspaceCreated: "workspace-created",
	PhaseStaged:           "staged",
	PhaseBuilt:            "built",
	PhaseArchived:         "archived",
	PhaseCleaned:          "cleaned",
	PhaseDone:             "done",
	PhaseFailed:           "failed",
}

// Returns the phase name, or "unknown" for values outside the sequence.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Whether the phase is terminal.
func (p Phase) terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Records a transition to the next phase.
//
// Terminal phases are sticky: once a run is done or failed it stays there.
func (p *Phase) advance(next Phase) {
	if p.terminal() {
		return
	}
	slog.Debug("pipeline phase", "from", p.String(), "to", next.String())
	*p = next
}
