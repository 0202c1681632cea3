package qgen

import (
	"fmt"
	"strings"

	"github.com/abiram/quizgraph/internal/question"
)

// ValidationError reports a generated question rejected by a validator.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Validator, e.Message)
}

// Validator checks one generated question against the session input. A nil
// return accepts the question.
type Validator interface {
	Name() string
	Validate(q *question.Question, in Input) *ValidationError
}

// StructuralValidator rejects questions that are not well formed: missing
// prompt or topic, wrong option count, correct option outside the set.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (StructuralValidator) Validate(q *question.Question, in Input) *ValidationError {
	if err := q.Validate(); err != nil {
		return &ValidationError{Validator: "structural", Message: err.Error()}
	}
	return nil
}

// DedupValidator rejects questions whose prompt repeats one already asked in
// the session, compared case- and whitespace-insensitively.
type DedupValidator struct{}

func (DedupValidator) Name() string { return "dedup" }

func (DedupValidator) Validate(q *question.Question, in Input) *ValidationError {
	want := normalizePrompt(q.Prompt)
	for _, r := range in.Responses {
		if normalizePrompt(r.Prompt) == want {
			return &ValidationError{Validator: "dedup", Message: "prompt duplicates an asked question"}
		}
	}
	return nil
}

func normalizePrompt(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
