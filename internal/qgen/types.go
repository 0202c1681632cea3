// Package qgen synthesizes new quiz questions and a learner profile from a
// finished session, using an LLM provider.
package qgen

import (
	"context"

	"github.com/abiram/quizgraph/internal/catalog"
	"github.com/abiram/quizgraph/internal/question"
)

// Response is one answered question from the session transcript, reduced to
// what the generator needs for context.
type Response struct {
	Topic      string
	Difficulty question.Difficulty
	Prompt     string
	Choice     question.Choice
	Correct    bool
}

// Input carries the session evidence the synthesis works from.
type Input struct {
	SessionID string

	// Responses is the transcript in answer order.
	Responses []Response

	// Solved and Unsolved are the catalog's topic sets.
	Solved   []string
	Unsolved []string

	// Breakdown is the per-topic performance detail.
	Breakdown map[string]catalog.TopicStats

	// Accuracy is the overall session accuracy in [0,1].
	Accuracy float64
}

// Result is the synthesis output: fresh questions targeting observed weak
// topics, and a free-text profile of the test-taker.
type Result struct {
	Questions []*question.Question
	Summary   string
}

// Generator is the generation capability consumed by the adaptive workflow.
// Implementations may be slow or unavailable; callers treat failures as
// retryable.
type Generator interface {
	Synthesize(ctx context.Context, in Input) (*Result, error)
}
