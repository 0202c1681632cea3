package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abiram/quizgraph/internal/llm"
	"github.com/abiram/quizgraph/internal/qgen"
	"github.com/abiram/quizgraph/internal/question"
	"github.com/abiram/quizgraph/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const seedFile = `[
  {"id": "f-e1", "topic": "Formulas", "difficulty": "easy",
   "prompt": "What does SUM do?",
   "options": {"A": "adds", "B": "counts", "C": "averages", "D": "sorts"},
   "correct_option": "A", "explanation": "SUM adds values."},
  {"id": "f-m1", "topic": "Formulas", "difficulty": "medium",
   "prompt": "What does VLOOKUP return on no match?",
   "options": {"A": "0", "B": "#N/A", "C": "blank", "D": "FALSE"},
   "correct_option": "B"},
  {"topic": "Pivot Tables", "difficulty": "easy",
   "prompt": "What is a pivot table for?",
   "options": {"A": "charts", "B": "summaries", "C": "macros", "D": "printing"},
   "correct_option": "B"}
]`

func seedTestStore(t *testing.T, s *Store) {
	t.Helper()
	n, err := s.Questions().SeedJSON(context.Background(), strings.NewReader(seedFile))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 3 {
		t.Fatalf("seeded %d questions, want 3", n)
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only meaningful for file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSeedAndFetch(t *testing.T) {
	s := openTestStore(t)
	seedTestStore(t, s)
	repo := s.Questions()
	ctx := context.Background()

	q, err := repo.Fetch(ctx, question.Filter{Topic: "Formulas", Difficulty: question.DifficultyMedium})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q == nil || q.ID != "f-m1" {
		t.Fatalf("fetch = %+v, want f-m1", q)
	}
	if q.Correct != question.ChoiceB {
		t.Errorf("correct option = %s, want B", q.Correct)
	}
	if q.Options[question.ChoiceD] != "FALSE" {
		t.Errorf("option D = %q, want FALSE", q.Options[question.ChoiceD])
	}

	// Exclusion is absolute.
	q, err = repo.Fetch(ctx, question.Filter{
		Topic:      "Formulas",
		ExcludeIDs: map[string]bool{"f-e1": true, "f-m1": true},
	})
	if err != nil {
		t.Fatalf("fetch with exclusions: %v", err)
	}
	if q != nil {
		t.Errorf("excluded pool returned %s, want nil", q.ID)
	}
}

func TestFetchEmptyPoolReturnsNil(t *testing.T) {
	s := openTestStore(t)

	q, err := s.Questions().Fetch(context.Background(), question.Filter{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q != nil {
		t.Errorf("empty bank returned %v, want nil", q)
	}
}

func TestTopicsInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	seedTestStore(t, s)

	topics, err := s.Questions().Topics(context.Background())
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	want := []string{"Formulas", "Pivot Tables"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %s, want %s", i, topics[i], want[i])
		}
	}
}

func TestRecordSubmissionAndStats(t *testing.T) {
	s := openTestStore(t)
	seedTestStore(t, s)
	repo := s.Sessions()
	ctx := context.Background()

	subs := []quiz.Submission{
		{SessionID: "s1", QuestionID: "f-e1", Choice: question.ChoiceA, Correct: true, At: time.Now()},
		{SessionID: "s1", QuestionID: "f-m1", Choice: question.ChoiceC, Correct: false, At: time.Now()},
	}
	for _, sub := range subs {
		if err := repo.RecordSubmission(ctx, sub); err != nil {
			t.Fatalf("record submission: %v", err)
		}
	}
	if err := repo.SetStatus(ctx, "s1", quiz.StatusCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", st.Sessions)
	}
	if st.Submissions != 2 || st.CorrectSubmissions != 1 {
		t.Errorf("submissions = %d/%d, want 2 with 1 correct", st.Submissions, st.CorrectSubmissions)
	}
	if st.Accuracy != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", st.Accuracy)
	}
}

func TestArchiveSynthesis(t *testing.T) {
	s := openTestStore(t)
	seedTestStore(t, s)
	ctx := context.Background()

	res := &qgen.Result{
		Questions: []*question.Question{{
			ID:         "gen-1",
			Topic:      "Pivot Tables",
			Difficulty: question.DifficultyMedium,
			Prompt:     "Which field area aggregates values?",
			Options: map[question.Choice]string{
				question.ChoiceA: "rows", question.ChoiceB: "columns",
				question.ChoiceC: "values", question.ChoiceD: "filters",
			},
			Correct: question.ChoiceC,
		}},
		Summary: "Practice pivot tables.",
	}
	if err := s.Sessions().ArchiveSynthesis(ctx, "s1", res); err != nil {
		t.Fatalf("archive synthesis: %v", err)
	}

	total, generated, err := s.Questions().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 || generated != 1 {
		t.Errorf("counts = %d total / %d generated, want 4/1", total, generated)
	}

	// The archived question is servable like any other.
	got, err := s.Questions().Get(ctx, "gen-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Correct != question.ChoiceC {
		t.Fatalf("archived question came back wrong: %+v", got)
	}

	summary, err := s.Sessions().Summary(ctx, "s1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != "Practice pivot tables." {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummaryMissingIsEmpty(t *testing.T) {
	s := openTestStore(t)

	summary, err := s.Sessions().Summary(context.Background(), "nope")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != "" {
		t.Errorf("summary = %q, want empty", summary)
	}
}

func TestRecordLLMRequest(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	events := []llm.RequestEvent{
		{Provider: "anthropic", Model: "m", Purpose: "synthesis", InputTokens: 100, OutputTokens: 50, LatencyMs: 800, Success: true, At: time.Now()},
		{Provider: "anthropic", Model: "m", Purpose: "synthesis", Success: false, ErrorMessage: "timeout", At: time.Now()},
	}
	for _, ev := range events {
		if err := repo.RecordLLMRequest(ctx, ev); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	counts, err := repo.CountByPurpose(ctx)
	if err != nil {
		t.Fatalf("count by purpose: %v", err)
	}
	if counts["synthesis"] != 2 {
		t.Errorf("synthesis events = %d, want 2", counts["synthesis"])
	}
}

func TestSeedRejectsBadEntries(t *testing.T) {
	s := openTestStore(t)

	bad := `[{"topic": "X", "difficulty": "easy", "prompt": "p",
		"options": {"A": "a", "B": "b", "C": "c", "D": "d"},
		"correct_option": "E"}]`
	if _, err := s.Questions().SeedJSON(context.Background(), strings.NewReader(bad)); err == nil {
		t.Error("expected seed to reject an invalid correct option")
	}
}
