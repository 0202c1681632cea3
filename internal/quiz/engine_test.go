package quiz

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/abiram/quizgraph/internal/question"
)

func testEngine(t *testing.T, cfg Config, src question.Source) *Engine {
	t.Helper()
	e, err := Start(cfg, src, NewPolicy(rand.New(rand.NewSource(42))))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e
}

// answerNext pulls the next question and answers it with the given choice.
func answerNext(t *testing.T, e *Engine, choice string) *AnswerResult {
	t.Helper()
	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	res, err := e.SubmitAnswer(context.Background(), v.ID, choice)
	if err != nil {
		t.Fatalf("SubmitAnswer(%s): %v", v.ID, err)
	}
	return res
}

func TestStart_RejectsNonPositiveLimit(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 1)
	for _, max := range []int{0, -1, -15} {
		_, err := Start(Config{MaxQuestions: max}, src, NewPolicy(rand.New(rand.NewSource(1))))
		var cfgErr *ErrInvalidConfig
		if !errors.As(err, &cfgErr) {
			t.Errorf("Start(max=%d) error = %v, want ErrInvalidConfig", max, err)
		}
	}
}

func TestNextQuestion_RedactsAnswerKey(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 1)
	e := testEngine(t, Config{MaxQuestions: 1}, src)

	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if len(v.Options) != 4 {
		t.Errorf("options = %d, want 4", len(v.Options))
	}
	// The view carries no correct option field at all; the strongest check
	// left is that issuing a question does not advance the session.
	if got := e.QuestionsAnswered(); got != 0 {
		t.Errorf("QuestionsAnswered = %d, want 0 before submit", got)
	}
}

func TestNextQuestion_ReissuesPending(t *testing.T) {
	src := buildPool([]string{"Algebra", "Geometry"}, 2)
	e := testEngine(t, Config{MaxQuestions: 4}, src)

	first, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	again, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion (pending): %v", err)
	}
	if first.ID != again.ID {
		t.Errorf("pending question changed: %s then %s", first.ID, again.ID)
	}
}

func TestComplete_ClosesActiveSession(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 4}, src)

	answerNext(t, e, "A")
	if err := e.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := e.Status(); got != StatusCompleted {
		t.Errorf("status = %s, want %s", got, StatusCompleted)
	}

	var closed *ErrSessionClosed
	if err := e.Complete(); !errors.As(err, &closed) {
		t.Errorf("second Complete error = %v, want ErrSessionClosed", err)
	}
	if _, err := e.NextQuestion(context.Background()); !errors.As(err, &closed) {
		t.Errorf("NextQuestion after Complete error = %v, want ErrSessionClosed", err)
	}
	// Answers recorded before completion stay recorded.
	if got := e.QuestionsAnswered(); got != 1 {
		t.Errorf("QuestionsAnswered = %d, want 1", got)
	}
}

func TestPending_ReflectsIssuedQuestion(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 4}, src)

	if e.Pending() != nil {
		t.Fatal("Pending before issuing, want nil")
	}
	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	p := e.Pending()
	if p == nil || p.ID != v.ID {
		t.Fatalf("Pending = %v, want the issued question %s", p, v.ID)
	}
	if _, err := e.SubmitAnswer(context.Background(), v.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if e.Pending() != nil {
		t.Error("Pending after submit, want nil")
	}
}

func TestSubmitAnswer_Feedback(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 2}, src)

	res := answerNext(t, e, "A") // pool questions key on A
	if !res.Correct {
		t.Error("expected correct answer")
	}
	if res.Topic != "Algebra" || res.TopicStatus != "solved" {
		t.Errorf("topic feedback = %s/%s, want Algebra/solved", res.Topic, res.TopicStatus)
	}
	if res.Completed || res.Remaining != 1 {
		t.Errorf("completed=%t remaining=%d, want false/1", res.Completed, res.Remaining)
	}

	res = answerNext(t, e, "b")
	if res.Correct {
		t.Error("expected incorrect answer for choice B")
	}
	if res.TopicStatus != "solved" {
		t.Errorf("mixed topic status = %s, want solved", res.TopicStatus)
	}
	if !res.Completed {
		t.Error("expected session completed at limit")
	}
	if e.Status() != StatusCompleted {
		t.Errorf("status = %s, want %s", e.Status(), StatusCompleted)
	}
}

func TestSubmitAnswer_InvalidChoiceRejectedBeforeMutation(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 1)
	e := testEngine(t, Config{MaxQuestions: 1}, src)

	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}

	_, err = e.SubmitAnswer(context.Background(), v.ID, "E")
	var invErr *ErrInvalidAnswer
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want ErrInvalidAnswer", err)
	}
	if e.QuestionsAnswered() != 0 {
		t.Error("rejected answer must not be recorded")
	}

	// The question is still pending and answerable.
	if _, err := e.SubmitAnswer(context.Background(), v.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer after rejection: %v", err)
	}
}

func TestSubmitAnswer_DoubleSubmitIsStale(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 2}, src)

	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if _, err := e.SubmitAnswer(context.Background(), v.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	_, err = e.SubmitAnswer(context.Background(), v.ID, "A")
	var staleErr *ErrStaleQuestion
	if !errors.As(err, &staleErr) {
		t.Fatalf("second submit error = %v, want ErrStaleQuestion", err)
	}

	perf := e.Performance()
	if perf.TotalQuestions != 1 {
		t.Errorf("catalog reflects %d answers, want exactly 1", perf.TotalQuestions)
	}
}

func TestSubmitAnswer_UnknownQuestionIsStale(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 2}, src)

	if _, err := e.NextQuestion(context.Background()); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	_, err := e.SubmitAnswer(context.Background(), "no-such-id", "A")
	var staleErr *ErrStaleQuestion
	if !errors.As(err, &staleErr) {
		t.Fatalf("error = %v, want ErrStaleQuestion", err)
	}
	if e.Status() != StatusActive {
		t.Errorf("status = %s, want still active", e.Status())
	}
}

func TestTerminalStatesAreMonotonic(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 3)
	e := testEngine(t, Config{MaxQuestions: 3}, src)

	if err := e.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if e.Status() != StatusEndedEarly {
		t.Fatalf("status = %s, want %s", e.Status(), StatusEndedEarly)
	}

	if _, err := e.NextQuestion(context.Background()); err == nil {
		t.Error("NextQuestion succeeded on ended session")
	}
	if _, err := e.SubmitAnswer(context.Background(), "x", "A"); err == nil {
		t.Error("SubmitAnswer succeeded on ended session")
	}
	if err := e.End(); err == nil {
		t.Error("End succeeded twice")
	}

	// Performance stays readable in terminal states.
	perf := e.Performance()
	if perf.Status != StatusEndedEarly {
		t.Errorf("performance status = %s, want %s", perf.Status, StatusEndedEarly)
	}
}

func TestPoolExhaustionCompletesSession(t *testing.T) {
	src := buildPool([]string{"Algebra"}, 2)
	e := testEngine(t, Config{MaxQuestions: 5}, src)

	answerNext(t, e, "A")
	answerNext(t, e, "B")

	_, err := e.NextQuestion(context.Background())
	var exhErr *ErrSessionExhausted
	if !errors.As(err, &exhErr) {
		t.Fatalf("error = %v, want ErrSessionExhausted", err)
	}
	if e.Status() != StatusCompleted {
		t.Errorf("status = %s, want %s (exhaustion is a normal completion)", e.Status(), StatusCompleted)
	}
}

// Scenario from the selection contract: 3-question session over a 5-question
// pool in 2 topics draws its first two questions from distinct topics.
func TestScenario_BreadthFirstThenComplete(t *testing.T) {
	src := question.NewMemorySource(
		poolQuestion("a-0", "TopicA", question.DifficultyEasy),
		poolQuestion("a-1", "TopicA", question.DifficultyEasy),
		poolQuestion("b-0", "TopicB", question.DifficultyEasy),
		poolQuestion("b-1", "TopicB", question.DifficultyEasy),
		poolQuestion("b-2", "TopicB", question.DifficultyEasy),
	)
	e := testEngine(t, Config{MaxQuestions: 3}, src)

	v1, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if _, err := e.SubmitAnswer(context.Background(), v1.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	v2, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if v2.Topic == v1.Topic {
		t.Errorf("first two questions share topic %q, want distinct topics", v1.Topic)
	}
	if _, err := e.SubmitAnswer(context.Background(), v2.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	answerNext(t, e, "A")

	perf := e.Performance()
	if perf.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", perf.TotalQuestions)
	}
	if perf.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", perf.Status, StatusCompleted)
	}
}

type failingSource struct{ err error }

func (f *failingSource) Fetch(context.Context, question.Filter) (*question.Question, error) {
	return nil, f.err
}

func (f *failingSource) Topics(context.Context) ([]string, error) {
	return []string{"Algebra"}, nil
}

func TestSourceFailureIsRetryable(t *testing.T) {
	src := &failingSource{err: errors.New("connection refused")}
	e := testEngine(t, Config{MaxQuestions: 3}, src)

	_, err := e.NextQuestion(context.Background())
	var unavailErr *ErrSourceUnavailable
	if !errors.As(err, &unavailErr) {
		t.Fatalf("error = %v, want ErrSourceUnavailable", err)
	}
	if e.Status() != StatusActive {
		t.Errorf("status = %s, want still active after source failure", e.Status())
	}
}

func TestClockInjection(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := buildPool([]string{"Algebra"}, 1)
	e, err := Start(Config{MaxQuestions: 1}, src, NewPolicy(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return fixed }),
		WithSessionID("fixed-session"),
	)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	v, err := e.NextQuestion(context.Background())
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if _, err := e.SubmitAnswer(context.Background(), v.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	tr := e.Transcript()
	if len(tr) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(tr))
	}
	if !tr[0].Submission.At.Equal(fixed) {
		t.Errorf("submission time = %v, want %v", tr[0].Submission.At, fixed)
	}
	if tr[0].Submission.SessionID != "fixed-session" {
		t.Errorf("session id = %s, want fixed-session", tr[0].Submission.SessionID)
	}
}
