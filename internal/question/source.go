package question

import "context"

// Filter narrows a Source fetch. Zero values mean "any".
type Filter struct {
	// Topic restricts candidates to one topic when non-empty.
	Topic string

	// Difficulty restricts candidates to one band when non-empty.
	Difficulty Difficulty

	// ExcludeIDs are question IDs that must not be returned.
	ExcludeIDs map[string]bool
}

// Excluded reports whether id is filtered out.
func (f Filter) Excluded(id string) bool {
	return f.ExcludeIDs[id]
}

// Source supplies candidate questions. Implementations hold no decision
// logic: they filter and return, or report an empty result with (nil, nil).
// A Source must never return a question whose ID is in ExcludeIDs.
type Source interface {
	// Fetch returns one question matching the filter, or nil when the
	// filtered pool is empty.
	Fetch(ctx context.Context, f Filter) (*Question, error)

	// Topics returns the distinct topic labels available, in a stable order.
	Topics(ctx context.Context) ([]string, error)
}

// MemorySource is a deterministic in-memory Source. Questions are returned
// in insertion order, which keeps tests and seeded runs reproducible.
type MemorySource struct {
	questions []*Question
}

// NewMemorySource creates a MemorySource over the given pool.
func NewMemorySource(qs ...*Question) *MemorySource {
	return &MemorySource{questions: qs}
}

// Add appends questions to the pool.
func (s *MemorySource) Add(qs ...*Question) {
	s.questions = append(s.questions, qs...)
}

// Fetch returns the first question in insertion order that matches f.
func (s *MemorySource) Fetch(_ context.Context, f Filter) (*Question, error) {
	for _, q := range s.questions {
		if f.Topic != "" && q.Topic != f.Topic {
			continue
		}
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			continue
		}
		if f.Excluded(q.ID) {
			continue
		}
		return q, nil
	}
	return nil, nil
}

// Topics returns distinct topics in first-seen order.
func (s *MemorySource) Topics(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range s.questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	return topics, nil
}
