package assessment

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/abiram/quizgraph/internal/qgen"
	"github.com/abiram/quizgraph/internal/question"
	"github.com/abiram/quizgraph/internal/quiz"
)

// Config tunes a workflow run.
type Config struct {
	// OpeningTopic is the topic of the introductory question. Defaults to
	// the session's first declared topic.
	OpeningTopic string
}

// Step is what the workflow hands back after every operation: the stage the
// run is now in, plus whichever of question, answer feedback, and synthesis
// payload that stage produces. Questions are always redacted views.
type Step struct {
	Stage     Stage              `json:"stage"`
	Question  *question.View     `json:"question,omitempty"`
	Feedback  *quiz.AnswerResult `json:"feedback,omitempty"`
	Synthesis *Synthesis         `json:"synthesis,omitempty"`
}

// Archiver persists the synthesis output. Failures are reported to stderr
// and do not fail the run.
type Archiver interface {
	ArchiveSynthesis(ctx context.Context, sessionID string, res *qgen.Result) error
}

// Workflow drives one assessment run over one session engine. All
// operations serialize on the workflow's mutex; a run is single-writer the
// same way its session is.
type Workflow struct {
	mu sync.Mutex

	engine   *quiz.Engine
	gen      qgen.Generator
	cfg      Config
	rng      *rand.Rand
	archiver Archiver

	stage  Stage
	opened bool

	// Deepening bundle state: the difficulties still to issue, and the
	// topic they target.
	bundle      []question.Difficulty
	bundleTopic string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRand substitutes the random source used for topic reselection.
func WithRand(rng *rand.Rand) Option {
	return func(w *Workflow) { w.rng = rng }
}

// WithArchiver attaches a synthesis archiver.
func WithArchiver(a Archiver) Option {
	return func(w *Workflow) { w.archiver = a }
}

// New creates a workflow over an active engine.
func New(engine *quiz.Engine, gen qgen.Generator, cfg Config, opts ...Option) *Workflow {
	w := &Workflow{
		engine: engine,
		gen:    gen,
		cfg:    cfg,
		stage:  StageOpening,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return w
}

// Stage returns the run's current stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// SessionID returns the underlying session's id.
func (w *Workflow) SessionID() string { return w.engine.ID() }

// Start issues the opening probe. Valid exactly once, in the opening stage.
func (w *Workflow) Start(ctx context.Context) (*Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageOpening || w.opened {
		return nil, &ErrWrongStage{Op: "start", Stage: w.stage}
	}

	topic := w.cfg.OpeningTopic
	if topic == "" {
		topics, err := w.engine.Topics(ctx)
		if err != nil {
			return nil, err
		}
		if len(topics) > 0 {
			topic = topics[0]
		}
	}

	v, err := w.engine.FetchDirected(ctx, topic, question.DifficultyEasy)
	if err != nil {
		return nil, err
	}
	if v == nil {
		// The fixed opening question is unavailable; fall back to the
		// selection policy.
		fallback, err := w.engine.NextQuestion(ctx)
		if err != nil {
			return nil, err
		}
		v = &fallback
	}

	w.opened = true
	return &Step{Stage: StageOpening, Question: v}, nil
}

// Submit grades the current question and advances the graph. The answer is
// recorded by the engine before any transition; a rejected answer (stale id,
// bad format) leaves both the session and the stage untouched.
func (w *Workflow) Submit(ctx context.Context, questionID, rawChoice string) (*Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.stage {
	case StageOpening, StageDeepening, StageProbe:
	default:
		return nil, &ErrWrongStage{Op: "submit", Stage: w.stage}
	}

	fb, err := w.engine.SubmitAnswer(ctx, questionID, rawChoice)
	if err != nil {
		return nil, err
	}

	step, err := w.afterAnswer(ctx, fb)
	if err != nil {
		return nil, err
	}
	step.Feedback = fb
	return step, nil
}

// afterAnswer routes the graph from the stage that just collected fb.
// Callers hold the mutex.
func (w *Workflow) afterAnswer(ctx context.Context, fb *quiz.AnswerResult) (*Step, error) {
	from := w.stage

	if fb.Completed {
		// The session hit its question limit; every path converges on
		// synthesis. Deepening jumps directly, probes route through the
		// branch node.
		if from != StageDeepening {
			if err := w.advance(StageBranch); err != nil {
				return nil, err
			}
		}
		if err := w.advance(StageSynthesis); err != nil {
			return nil, err
		}
		return &Step{Stage: StageSynthesis}, nil
	}

	switch from {
	case StageOpening, StageProbe:
		if err := w.advance(StageBranch); err != nil {
			return nil, err
		}
		if fb.Correct {
			w.bundle = []question.Difficulty{
				question.DifficultyEasy, question.DifficultyEasy,
				question.DifficultyMedium, question.DifficultyMedium,
			}
			w.bundleTopic = fb.Topic
			if err := w.advance(StageDeepening); err != nil {
				return nil, err
			}
			return w.continueDeepening(ctx)
		}
		if err := w.advance(StageAnalysis); err != nil {
			return nil, err
		}
		return w.reselect(ctx)

	case StageDeepening:
		if len(w.bundle) > 0 {
			if err := w.advance(StageDeepening); err != nil {
				return nil, err
			}
			return w.continueDeepening(ctx)
		}
		if err := w.advance(StageAnalysis); err != nil {
			return nil, err
		}
		return w.reselect(ctx)
	}

	return nil, fmt.Errorf("no route from stage %q", from)
}

// continueDeepening issues the next question of the bundle, skipping
// difficulties the pool has run dry on. An empty bundle rejoins at analysis.
// A source failure leaves the bundle intact so the stage can be resumed.
func (w *Workflow) continueDeepening(ctx context.Context) (*Step, error) {
	for len(w.bundle) > 0 {
		v, err := w.engine.FetchDirected(ctx, w.bundleTopic, w.bundle[0])
		if err != nil {
			return nil, err
		}
		w.bundle = w.bundle[1:]
		if v != nil {
			return &Step{Stage: StageDeepening, Question: v}, nil
		}
	}

	if err := w.advance(StageAnalysis); err != nil {
		return nil, err
	}
	return w.reselect(ctx)
}

// reselect runs the analysis rejoin and moves to topic reselection.
func (w *Workflow) reselect(ctx context.Context) (*Step, error) {
	if err := w.advance(StageReselect); err != nil {
		return nil, err
	}
	return w.probe(ctx)
}

// probe picks the next topic and issues its targeted question. Candidates
// are the topics outside the solved set, unattempted ones first in declared
// order, then a uniform pick among the attempted-but-unsolved. No candidate
// with unseen questions left means the run is out of material and moves to
// synthesis.
func (w *Workflow) probe(ctx context.Context) (*Step, error) {
	topics, err := w.engine.Topics(ctx)
	if err != nil {
		return nil, err
	}

	solved := make(map[string]bool)
	for _, t := range w.engine.SolvedTopics() {
		solved[t] = true
	}
	unsolved := make(map[string]bool)
	for _, t := range w.engine.UnsolvedTopics() {
		unsolved[t] = true
	}

	var unattempted, attempted []string
	for _, t := range topics {
		switch {
		case solved[t]:
		case unsolved[t]:
			attempted = append(attempted, t)
		default:
			unattempted = append(unattempted, t)
		}
	}
	w.rng.Shuffle(len(attempted), func(i, j int) {
		attempted[i], attempted[j] = attempted[j], attempted[i]
	})

	for _, t := range append(unattempted, attempted...) {
		v, err := w.engine.FetchDirected(ctx, t, "")
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if err := w.advance(StageProbe); err != nil {
			return nil, err
		}
		return &Step{Stage: StageProbe, Question: v}, nil
	}

	// Out of material: the session is over even though the question limit
	// was never hit.
	if w.engine.Status() == quiz.StatusActive {
		if err := w.engine.Complete(); err != nil {
			return nil, err
		}
	}
	if err := w.advance(StageSynthesis); err != nil {
		return nil, err
	}
	return &Step{Stage: StageSynthesis}, nil
}

// Resume re-issues the current stage's question after a retryable source
// failure, without touching recorded answers. An issued question that was
// never answered comes back unchanged; otherwise the interrupted stage is
// re-run from where it stopped.
func (w *Workflow) Resume(ctx context.Context) (*Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if v := w.engine.Pending(); v != nil {
		switch w.stage {
		case StageOpening, StageDeepening, StageProbe:
			return &Step{Stage: w.stage, Question: v}, nil
		}
	}

	switch w.stage {
	case StageDeepening:
		return w.continueDeepening(ctx)
	case StageReselect:
		return w.probe(ctx)
	case StageSynthesis:
		return &Step{Stage: StageSynthesis}, nil
	}
	return nil, &ErrWrongStage{Op: "resume", Stage: w.stage}
}

// Finalize runs the synthesis stage: the transcript and catalog go to the
// generation capability, which returns new questions and a profile summary.
// Valid only in the synthesis stage; on failure the stage is unchanged and
// Finalize may be retried.
func (w *Workflow) Finalize(ctx context.Context) (*Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageSynthesis {
		return nil, &ErrWrongStage{Op: "finalize", Stage: w.stage}
	}

	res, err := w.gen.Synthesize(ctx, w.synthesisInput())
	if err != nil {
		return nil, err
	}

	if w.archiver != nil {
		if aerr := w.archiver.ArchiveSynthesis(ctx, w.engine.ID(), res); aerr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to archive synthesis: %v\n", aerr)
		}
	}

	perf := w.engine.Performance()
	syn := &Synthesis{
		Summary:         res.Summary,
		Recommendations: Recommend(perf.Breakdown),
		Performance:     perf,
	}
	for _, q := range res.Questions {
		syn.Questions = append(syn.Questions, q.View())
	}

	if err := w.advance(StageDone); err != nil {
		return nil, err
	}
	return &Step{Stage: StageDone, Synthesis: syn}, nil
}

// Cancel ends the run and the underlying session. Answers already recorded
// stay recorded.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage == StageDone {
		return &ErrWrongStage{Op: "cancel", Stage: w.stage}
	}
	w.stage = StageDone
	if w.engine.Status() == quiz.StatusActive {
		return w.engine.End()
	}
	return nil
}

// Performance exposes the underlying session's performance snapshot.
func (w *Workflow) Performance() quiz.Performance {
	return w.engine.Performance()
}

func (w *Workflow) synthesisInput() qgen.Input {
	perf := w.engine.Performance()

	in := qgen.Input{
		SessionID: w.engine.ID(),
		Solved:    perf.SolvedTopics,
		Unsolved:  perf.UnsolvedTopics,
		Breakdown: perf.Breakdown,
		Accuracy:  perf.Accuracy,
	}
	for _, ex := range w.engine.Transcript() {
		in.Responses = append(in.Responses, qgen.Response{
			Topic:      ex.Question.Topic,
			Difficulty: ex.Question.Difficulty,
			Prompt:     ex.Question.Prompt,
			Choice:     ex.Submission.Choice,
			Correct:    ex.Submission.Correct,
		})
	}
	return in
}

func (w *Workflow) advance(next Stage) error {
	if !ValidTransition(w.stage, next) {
		return fmt.Errorf("invalid stage transition %q -> %q", w.stage, next)
	}
	w.stage = next
	return nil
}
