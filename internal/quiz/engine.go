// Package quiz owns the adaptive session lifecycle: issuing questions
// through the selection policy, recording answers into the topic catalog,
// and enforcing the session state machine.
package quiz

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abiram/quizgraph/internal/catalog"
	"github.com/abiram/quizgraph/internal/question"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusEndedEarly Status = "ended_early"
)

// DefaultMaxQuestions is the question limit when the caller does not set one.
const DefaultMaxQuestions = 15

// DefaultSourceTimeout bounds each question source call.
const DefaultSourceTimeout = 10 * time.Second

// Submission is one recorded answer. Created on response, never mutated.
type Submission struct {
	SessionID  string          `json:"session_id"`
	QuestionID string          `json:"question_id"`
	Choice     question.Choice `json:"choice"`
	Correct    bool            `json:"correct"`
	At         time.Time       `json:"at"`
}

// Exchange pairs an issued question with its submission.
type Exchange struct {
	Question   *question.Question
	Submission Submission
}

// Recorder receives submissions for persistence. Failures are reported to
// stderr and do not affect the session; the engine state is the source of
// truth for the session's lifetime.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub Submission) error
}

// Config holds session start parameters.
type Config struct {
	// MaxQuestions is the question limit. Must be positive; callers that
	// want the standard length pass DefaultMaxQuestions.
	MaxQuestions int

	// Topics optionally restricts the session to the given topics, in the
	// given order. When empty the source's full topic list is used.
	Topics []string

	// SourceTimeout bounds each source fetch. Defaults to DefaultSourceTimeout.
	SourceTimeout time.Duration
}

// Engine runs one session. All mutation goes through the engine under a
// per-session mutex; the catalog and policy read session state but never
// write it. Engines for different sessions share nothing.
type Engine struct {
	mu sync.Mutex

	id        string
	cfg       Config
	status    Status
	createdAt time.Time

	source   question.Source
	policy   *Policy
	cat      *catalog.Catalog
	clock    func() time.Time
	recorder Recorder

	topics    []string // declared topic order, resolved lazily from the source
	exchanges []Exchange
	pending   *question.Question
	asked     map[string]bool
}

// Option configures an Engine at start.
type Option func(*Engine)

// WithClock substitutes the time source. For tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRecorder attaches a submission recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.id = id }
}

// Start creates a session in the active state.
func Start(cfg Config, src question.Source, policy *Policy, opts ...Option) (*Engine, error) {
	if cfg.MaxQuestions <= 0 {
		return nil, &ErrInvalidConfig{Reason: fmt.Sprintf("max questions must be positive, got %d", cfg.MaxQuestions)}
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	if src == nil {
		return nil, &ErrInvalidConfig{Reason: "question source is required"}
	}
	if policy == nil {
		return nil, &ErrInvalidConfig{Reason: "selection policy is required"}
	}

	e := &Engine{
		id:     uuid.NewString(),
		cfg:    cfg,
		status: StatusActive,
		source: src,
		policy: policy,
		cat:    catalog.New(),
		clock:  time.Now,
		asked:  make(map[string]bool),
		topics: cfg.Topics,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.createdAt = e.clock()
	return e, nil
}

// ID returns the session id.
func (e *Engine) ID() string { return e.id }

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// QuestionsAnswered returns the number of recorded submissions.
func (e *Engine) QuestionsAnswered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.exchanges)
}

// NextQuestion selects and issues the next question, redacted. While a
// question is pending it is re-issued unchanged; the session advances only
// on answers. When the pool is exhausted the session completes and
// ErrSessionExhausted is returned.
func (e *Engine) NextQuestion(ctx context.Context) (question.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return question.View{}, &ErrSessionClosed{Status: e.status}
	}
	if e.pending != nil {
		return e.pending.View(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
	defer cancel()

	if err := e.resolveTopics(ctx); err != nil {
		return question.View{}, err
	}

	q, err := e.policy.Next(ctx, e.source, e.cat, e.topics, e.asked, e.cfg.MaxQuestions)
	if err != nil {
		// Source failure is retryable; the session stays active.
		return question.View{}, err
	}
	if q == nil {
		e.status = StatusCompleted
		return question.View{}, &ErrSessionExhausted{}
	}

	e.pending = q
	e.asked[q.ID] = true
	return q.View(), nil
}

// FetchDirected issues a question for a specific topic and difficulty,
// bypassing the selection policy. Used by the workflow's fixed stages. The
// result is nil when the filtered pool has no unseen question.
func (e *Engine) FetchDirected(ctx context.Context, topic string, diff question.Difficulty) (*question.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return nil, &ErrSessionClosed{Status: e.status}
	}
	if e.pending != nil {
		v := e.pending.View()
		return &v, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
	defer cancel()

	q, err := e.source.Fetch(ctx, question.Filter{
		Topic:      topic,
		Difficulty: diff,
		ExcludeIDs: e.asked,
	})
	if err != nil {
		return nil, &ErrSourceUnavailable{Err: err}
	}
	if q == nil {
		return nil, nil
	}

	e.pending = q
	e.asked[q.ID] = true
	v := q.View()
	return &v, nil
}

// AnswerResult is the immediate feedback for a submission. The correct
// option and explanation are revealed only here, after the answer is locked in.
type AnswerResult struct {
	Correct       bool            `json:"correct"`
	CorrectOption question.Choice `json:"correct_option"`
	Explanation   string          `json:"explanation,omitempty"`
	Topic         string          `json:"topic"`
	TopicStatus   catalog.Status  `json:"topic_status"`
	Completed     bool            `json:"completed"`
	Remaining     int             `json:"questions_remaining"`
}

// SubmitAnswer grades the pending question. Valid only while active and
// only for the most recently issued, unanswered question. The submission,
// catalog update, and any completion transition commit together or not at
// all: every rejection happens before the first mutation.
func (e *Engine) SubmitAnswer(ctx context.Context, questionID, rawChoice string) (*AnswerResult, error) {
	choice, err := question.ParseChoice(rawChoice)
	if err != nil {
		return nil, &ErrInvalidAnswer{Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return nil, &ErrSessionClosed{Status: e.status}
	}
	if e.pending == nil || e.pending.ID != questionID {
		return nil, &ErrStaleQuestion{QuestionID: questionID}
	}

	q := e.pending
	correct := choice == q.Correct
	sub := Submission{
		SessionID:  e.id,
		QuestionID: q.ID,
		Choice:     choice,
		Correct:    correct,
		At:         e.clock(),
	}

	e.exchanges = append(e.exchanges, Exchange{Question: q, Submission: sub})
	e.cat.Record(q.Topic, correct)
	e.pending = nil
	if len(e.exchanges) >= e.cfg.MaxQuestions {
		e.status = StatusCompleted
	}

	if e.recorder != nil {
		if recErr := e.recorder.RecordSubmission(ctx, sub); recErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to persist submission: %v\n", recErr)
		}
	}

	return &AnswerResult{
		Correct:       correct,
		CorrectOption: q.Correct,
		Explanation:   q.Explanation,
		Topic:         q.Topic,
		TopicStatus:   e.cat.Status(q.Topic),
		Completed:     e.status == StatusCompleted,
		Remaining:     e.cfg.MaxQuestions - len(e.exchanges),
	}, nil
}

// Complete marks the session completed, the same transition the question
// limit triggers. Callers use it when they know the pool is exhausted
// without going through NextQuestion. Valid only while active.
func (e *Engine) Complete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return &ErrSessionClosed{Status: e.status}
	}
	e.status = StatusCompleted
	return nil
}

// Pending returns the issued-but-unanswered question, redacted, or nil.
func (e *Engine) Pending() *question.View {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return nil
	}
	v := e.pending.View()
	return &v
}

// End terminates the session early. Valid only while active.
func (e *Engine) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return &ErrSessionClosed{Status: e.status}
	}
	e.status = StatusEndedEarly
	return nil
}

// Performance is the session performance snapshot.
type Performance struct {
	SessionID string    `json:"session_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	catalog.Summary
}

// Performance reports counts, accuracy, and the catalog's solved/unsolved
// sets. Valid in any state; read-only.
func (e *Engine) Performance() Performance {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Performance{
		SessionID: e.id,
		Status:    e.status,
		CreatedAt: e.createdAt,
		Summary:   e.cat.Summarize(),
	}
}

// Transcript returns the ordered question/submission pairs so far. The
// returned slice is a copy; the questions it references are immutable.
func (e *Engine) Transcript() []Exchange {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Exchange, len(e.exchanges))
	copy(out, e.exchanges)
	return out
}

// SolvedTopics returns the catalog's solved set.
func (e *Engine) SolvedTopics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat.SolvedTopics()
}

// UnsolvedTopics returns the catalog's unsolved set.
func (e *Engine) UnsolvedTopics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat.UnsolvedTopics()
}

// Topics returns the session's declared topic order, resolving it from the
// source on first use.
func (e *Engine) Topics(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.resolveTopics(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(e.topics))
	copy(out, e.topics)
	return out, nil
}

func (e *Engine) resolveTopics(ctx context.Context) error {
	if e.topics != nil {
		return nil
	}
	topics, err := e.source.Topics(ctx)
	if err != nil {
		return &ErrSourceUnavailable{Err: err}
	}
	if topics == nil {
		topics = []string{}
	}
	e.topics = topics
	return nil
}
