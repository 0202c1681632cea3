package question

import "fmt"

// Choice labels one of the four answer options.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the four valid option labels in display order.
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// ParseChoice validates and normalizes a raw answer string.
// Accepts upper or lower case single letters A-D.
func ParseChoice(raw string) (Choice, error) {
	switch raw {
	case "A", "a":
		return ChoiceA, nil
	case "B", "b":
		return ChoiceB, nil
	case "C", "c":
		return ChoiceC, nil
	case "D", "d":
		return ChoiceD, nil
	}
	return "", fmt.Errorf("answer must be one of A, B, C, D (got %q)", raw)
}

// Difficulty is the question difficulty band.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty label.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(raw), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", raw)
}

// Question is a single multiple-choice item. Immutable once fetched from a
// Source. The correct option never crosses a trust boundary: it is excluded
// from JSON serialization, and anything user-facing goes through View.
type Question struct {
	ID          string            `json:"id"`
	Topic       string            `json:"topic"`
	Difficulty  Difficulty        `json:"difficulty"`
	Prompt      string            `json:"prompt"`
	Options     map[Choice]string `json:"options"`
	Correct     Choice            `json:"-"`
	Explanation string            `json:"-"`
}

// View is the redacted form of a Question, safe to hand to callers before
// they answer. It carries no correct option and no explanation.
type View struct {
	ID         string            `json:"id"`
	Topic      string            `json:"topic"`
	Difficulty Difficulty        `json:"difficulty"`
	Prompt     string            `json:"prompt"`
	Options    map[Choice]string `json:"options"`
}

// View returns the redacted form of q.
func (q *Question) View() View {
	opts := make(map[Choice]string, len(q.Options))
	for c, text := range q.Options {
		opts[c] = text
	}
	return View{
		ID:         q.ID,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    opts,
	}
}

// Validate checks structural integrity: exactly four options labeled A-D
// and a correct option that is one of them.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has empty id")
	}
	if q.Topic == "" {
		return fmt.Errorf("question %s has empty topic", q.ID)
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s has empty prompt", q.ID)
	}
	if _, err := ParseDifficulty(string(q.Difficulty)); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	if len(q.Options) != len(Choices) {
		return fmt.Errorf("question %s has %d options, want %d", q.ID, len(q.Options), len(Choices))
	}
	for _, c := range Choices {
		if q.Options[c] == "" {
			return fmt.Errorf("question %s is missing option %s", q.ID, c)
		}
	}
	if _, ok := q.Options[q.Correct]; !ok {
		return fmt.Errorf("question %s has correct option %q outside A-D", q.ID, q.Correct)
	}
	return nil
}
