package question

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func validQuestion() *Question {
	return &Question{
		ID:         "f-e1",
		Topic:      "Formulas",
		Difficulty: DifficultyEasy,
		Prompt:     "What does SUM do?",
		Options: map[Choice]string{
			ChoiceA: "adds", ChoiceB: "counts", ChoiceC: "averages", ChoiceD: "sorts",
		},
		Correct:     ChoiceA,
		Explanation: "SUM adds values.",
	}
}

func TestParseChoice(t *testing.T) {
	for _, raw := range []string{"A", "a", "d", "D"} {
		if _, err := ParseChoice(raw); err != nil {
			t.Errorf("ParseChoice(%q) failed: %v", raw, err)
		}
	}
	if c, _ := ParseChoice("b"); c != ChoiceB {
		t.Errorf("ParseChoice(b) = %s, want B", c)
	}
	for _, raw := range []string{"", "E", "AB", "1"} {
		if _, err := ParseChoice(raw); err == nil {
			t.Errorf("ParseChoice(%q) should fail", raw)
		}
	}
}

func TestAnswerKeyNeverSerialized(t *testing.T) {
	q := validQuestion()

	raw, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal question: %v", err)
	}
	for _, leak := range []string{"Correct", "correct", "Explanation", "explanation", "SUM adds"} {
		if strings.Contains(string(raw), leak) {
			t.Errorf("serialized question leaks %q: %s", leak, raw)
		}
	}

	view, err := json.Marshal(q.View())
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	if strings.Contains(string(view), "correct") {
		t.Errorf("serialized view leaks the answer key: %s", view)
	}
}

func TestValidate(t *testing.T) {
	if err := validQuestion().Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	broken := map[string]func(*Question){
		"empty id":       func(q *Question) { q.ID = "" },
		"empty topic":    func(q *Question) { q.Topic = "" },
		"empty prompt":   func(q *Question) { q.Prompt = "" },
		"bad difficulty": func(q *Question) { q.Difficulty = "brutal" },
		"missing option": func(q *Question) { delete(q.Options, ChoiceC) },
		"blank option":   func(q *Question) { q.Options[ChoiceB] = "" },
		"bad correct":    func(q *Question) { q.Correct = "E" },
	}
	for name, mutate := range broken {
		q := validQuestion()
		mutate(q)
		if err := q.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestMemorySourceFiltersAndExcludes(t *testing.T) {
	a := validQuestion()
	b := validQuestion()
	b.ID = "f-m1"
	b.Difficulty = DifficultyMedium
	c := validQuestion()
	c.ID = "p-e1"
	c.Topic = "Pivot Tables"

	src := NewMemorySource(a, b, c)
	ctx := context.Background()

	got, err := src.Fetch(ctx, Filter{Topic: "Formulas", Difficulty: DifficultyMedium})
	if err != nil || got == nil || got.ID != "f-m1" {
		t.Fatalf("Fetch = %v, %v; want f-m1", got, err)
	}

	got, err = src.Fetch(ctx, Filter{Topic: "Formulas", ExcludeIDs: map[string]bool{"f-e1": true, "f-m1": true}})
	if err != nil || got != nil {
		t.Fatalf("excluded fetch = %v, %v; want nil, nil", got, err)
	}

	topics, err := src.Topics(ctx)
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "Formulas" || topics[1] != "Pivot Tables" {
		t.Errorf("Topics = %v, want [Formulas, Pivot Tables]", topics)
	}
}
