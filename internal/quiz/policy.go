package quiz

import (
	"context"
	"math/rand"

	"github.com/abiram/quizgraph/internal/catalog"
	"github.com/abiram/quizgraph/internal/question"
)

// Policy picks the next topic and question for a session.
//
// Candidate topics are tried in three strictly ordered rule sets; the first
// rule that yields a question wins:
//
//  1. Topics never attempted in this session, in declared topic-list order.
//     Breadth before depth: every topic is touched once before any repeat.
//  2. Attempted topics whose attempt count is below the coverage floor,
//     in declared order.
//  3. A uniform random ordering of all remaining eligible topics.
//
// A topic whose unseen questions are exhausted falls through to the next
// candidate rather than failing the selection. When the whole pool is
// exhausted the policy reports NoneAvailable as (nil, nil).
type Policy struct {
	// CoverageFloor is the minimum attempts per topic targeted by rule 2.
	// When 0, it is derived per call as maxQuestions / topicCount (min 1).
	CoverageFloor int

	rng *rand.Rand
}

// NewPolicy creates a Policy drawing randomness from rng.
func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng}
}

// Next selects one question. askedIDs are the session's already-issued
// question IDs; maxQuestions sizes the default coverage floor.
func (p *Policy) Next(
	ctx context.Context,
	src question.Source,
	cat *catalog.Catalog,
	topics []string,
	askedIDs map[string]bool,
	maxQuestions int,
) (*question.Question, error) {
	if len(topics) == 0 {
		return nil, nil
	}

	floor := p.CoverageFloor
	if floor <= 0 {
		floor = maxQuestions / len(topics)
		if floor < 1 {
			floor = 1
		}
	}

	var unattempted, underFloor []string
	for _, t := range topics {
		switch {
		case cat.Status(t) == catalog.StatusUnattempted:
			unattempted = append(unattempted, t)
		case cat.Attempts(t) < floor:
			underFloor = append(underFloor, t)
		}
	}

	// Rule 3 also sweeps up rule 1/2 topics whose pools ran dry under a
	// different difficulty mix, so shuffle the full list as the last resort.
	shuffled := make([]string, len(topics))
	copy(shuffled, topics)
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, ordered := range [][]string{unattempted, underFloor, shuffled} {
		for _, t := range ordered {
			q, err := src.Fetch(ctx, question.Filter{Topic: t, ExcludeIDs: askedIDs})
			if err != nil {
				return nil, &ErrSourceUnavailable{Err: err}
			}
			if q != nil {
				return q, nil
			}
		}
	}

	return nil, nil
}
