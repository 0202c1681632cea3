package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abiram/quizgraph/internal/qgen"
	"github.com/abiram/quizgraph/internal/quiz"
)

// SessionRepo persists sessions, submissions, and synthesis output. It
// implements quiz.Recorder and assessment.Archiver.
type SessionRepo struct {
	db *sql.DB
}

// RecordSubmission persists one answer, creating the session row on first
// contact.
func (r *SessionRepo) RecordSubmission(ctx context.Context, sub quiz.Submission) error {
	if err := r.ensureSession(ctx, sub.SessionID, sub.At); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (session_id, question_id, choice, correct, answered_at)
		VALUES (?, ?, ?, ?, ?)`,
		sub.SessionID, sub.QuestionID, string(sub.Choice),
		boolToInt(sub.Correct), sub.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// SetStatus records the session's lifecycle state.
func (r *SessionRepo) SetStatus(ctx context.Context, sessionID string, status quiz.Status) error {
	if err := r.ensureSession(ctx, sessionID, time.Now()); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET status = ? WHERE id = ?", string(status), sessionID)
	if err != nil {
		return fmt.Errorf("set session status: %w", err)
	}
	return nil
}

// ArchiveSynthesis stores the generated questions in the bank, marked as
// generated and attributed to the session, and saves the profile summary.
func (r *SessionRepo) ArchiveSynthesis(ctx context.Context, sessionID string, res *qgen.Result) error {
	if err := r.ensureSession(ctx, sessionID, time.Now()); err != nil {
		return err
	}

	questions := &QuestionRepo{db: r.db}
	for _, q := range res.Questions {
		if err := questions.Insert(ctx, q, true, sessionID); err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO summaries (session_id, summary) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET summary = excluded.summary`,
		sessionID, res.Summary)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// Summary returns the stored profile summary for a session, or "" when none
// exists.
func (r *SessionRepo) Summary(ctx context.Context, sessionID string) (string, error) {
	var summary string
	err := r.db.QueryRowContext(ctx,
		"SELECT summary FROM summaries WHERE session_id = ?", sessionID).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load summary: %w", err)
	}
	return summary, nil
}

// Stats is the aggregate picture of the local database.
type Stats struct {
	Questions          int     `json:"questions"`
	GeneratedQuestions int     `json:"generated_questions"`
	Sessions           int     `json:"sessions"`
	Submissions        int     `json:"submissions"`
	CorrectSubmissions int     `json:"correct_submissions"`
	Accuracy           float64 `json:"accuracy"`
}

// Stats aggregates counts across the whole database.
func (r *SessionRepo) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	questions := &QuestionRepo{db: r.db}
	var err error
	st.Questions, st.GeneratedQuestions, err = questions.Count(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions").Scan(&st.Sessions); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM submissions").
		Scan(&st.Submissions, &st.CorrectSubmissions); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	if st.Submissions > 0 {
		st.Accuracy = float64(st.CorrectSubmissions) / float64(st.Submissions)
	}
	return &st, nil
}

func (r *SessionRepo) ensureSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, status, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		sessionID, string(quiz.StatusActive), at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}
