// Package assessment runs the multi-stage adaptive assessment: a directed
// graph of stages layered over one quiz session, branching on correctness
// and ending in LLM synthesis of new questions and a profile summary.
package assessment

import "fmt"

// Stage is one node in the assessment graph.
type Stage string

const (
	// StageOpening issues the fixed introductory question.
	StageOpening Stage = "opening"

	// StageBranch reads the correctness of the last probe answer and picks
	// the next path. It is the only stage with a backward predecessor
	// (StageProbe loops here).
	StageBranch Stage = "branch"

	// StageDeepening issues the correct-path follow-up bundle: two easy
	// then two medium questions on the same topic.
	StageDeepening Stage = "deepening"

	// StageAnalysis computes the solved and unsolved topic sets. It is the
	// rejoin point for both branch paths.
	StageAnalysis Stage = "analysis"

	// StageReselect picks a not-yet-solved topic, unattempted first.
	StageReselect Stage = "reselect"

	// StageProbe issues one targeted question on the reselected topic.
	StageProbe Stage = "probe"

	// StageSynthesis hands the transcript and catalog to the generation
	// capability. Retryable: failure leaves the workflow here.
	StageSynthesis Stage = "synthesis"

	// StageDone is terminal.
	StageDone Stage = "done"
)

// Transitions is the assessment graph: every stage's valid successors.
// StageDeepening loops on itself while its bundle is in flight; any
// answering stage can jump to StageSynthesis when the session completes
// at its question limit.
var Transitions = map[Stage][]Stage{
	StageOpening:   {StageBranch},
	StageBranch:    {StageDeepening, StageAnalysis, StageSynthesis},
	StageDeepening: {StageDeepening, StageAnalysis, StageSynthesis},
	StageAnalysis:  {StageReselect},
	StageReselect:  {StageProbe, StageSynthesis},
	StageProbe:     {StageBranch},
	StageSynthesis: {StageDone},
	StageDone:      nil,
}

// ValidTransition reports whether from -> to is an edge of the graph.
func ValidTransition(from, to Stage) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ErrWrongStage reports an operation invoked outside its valid stage.
type ErrWrongStage struct {
	Op    string
	Stage Stage
}

func (e *ErrWrongStage) Error() string {
	return fmt.Sprintf("%s is not valid in stage %q", e.Op, e.Stage)
}
