package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/abiram/quizgraph/internal/question"
)

// QuestionRepo is the question bank. It implements question.Source.
type QuestionRepo struct {
	db *sql.DB
}

const questionColumns = `id, topic, difficulty, prompt,
	option_a, option_b, option_c, option_d, correct_option, explanation`

// Fetch returns one random question matching the filter, or nil when the
// filtered pool is empty. Excluded IDs are never returned.
func (r *QuestionRepo) Fetch(ctx context.Context, f question.Filter) (*question.Question, error) {
	var (
		conds []string
		args  []any
	)
	if f.Topic != "" {
		conds = append(conds, "topic = ?")
		args = append(args, f.Topic)
	}
	if f.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if len(f.ExcludeIDs) > 0 {
		placeholders := make([]string, 0, len(f.ExcludeIDs))
		for id := range f.ExcludeIDs {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		conds = append(conds, fmt.Sprintf("id NOT IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := "SELECT " + questionColumns + " FROM questions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY RANDOM() LIMIT 1"

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch question: %w", err)
	}
	return q, nil
}

// Topics returns the distinct topics in first-insertion order.
func (r *QuestionRepo) Topics(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT topic FROM questions GROUP BY topic ORDER BY MIN(rowid)")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Get returns the question with the given id, or nil when absent.
func (r *QuestionRepo) Get(ctx context.Context, id string) (*question.Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// Insert adds one question to the bank. Generated questions carry the
// session that produced them.
func (r *QuestionRepo) Insert(ctx context.Context, q *question.Question, generated bool, sourceSessionID string) error {
	if err := q.Validate(); err != nil {
		return err
	}

	var sessionID any
	if sourceSessionID != "" {
		sessionID = sourceSessionID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO questions (id, topic, difficulty, prompt,
			option_a, option_b, option_c, option_d,
			correct_option, explanation, generated, source_session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Topic, string(q.Difficulty), q.Prompt,
		q.Options[question.ChoiceA], q.Options[question.ChoiceB],
		q.Options[question.ChoiceC], q.Options[question.ChoiceD],
		string(q.Correct), q.Explanation, boolToInt(generated), sessionID)
	if err != nil {
		return fmt.Errorf("insert question %s: %w", q.ID, err)
	}
	return nil
}

// Count returns total and generated question counts.
func (r *QuestionRepo) Count(ctx context.Context) (total, generated int, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(generated), 0) FROM questions").Scan(&total, &generated)
	if err != nil {
		return 0, 0, fmt.Errorf("count questions: %w", err)
	}
	return total, generated, nil
}

// seedQuestion is the JSON shape of one question in a seed file. Unlike the
// wire format, a seed file carries the answer key.
type seedQuestion struct {
	ID          string            `json:"id"`
	Topic       string            `json:"topic"`
	Difficulty  string            `json:"difficulty"`
	Prompt      string            `json:"prompt"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct_option"`
	Explanation string            `json:"explanation"`
}

// SeedJSON loads a JSON array of questions into the bank, assigning ids to
// entries that lack one. Returns the number of questions inserted.
func (r *QuestionRepo) SeedJSON(ctx context.Context, reader io.Reader) (int, error) {
	var seeds []seedQuestion
	if err := json.NewDecoder(reader).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	inserted := 0
	for i, s := range seeds {
		q, err := seedToQuestion(s)
		if err != nil {
			return inserted, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if err := r.Insert(ctx, q, false, ""); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func seedToQuestion(s seedQuestion) (*question.Question, error) {
	diff, err := question.ParseDifficulty(s.Difficulty)
	if err != nil {
		return nil, err
	}
	correct, err := question.ParseChoice(s.Correct)
	if err != nil {
		return nil, err
	}

	options := make(map[question.Choice]string, len(s.Options))
	for key, text := range s.Options {
		c, err := question.ParseChoice(key)
		if err != nil {
			return nil, err
		}
		options[c] = text
	}

	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &question.Question{
		ID:          id,
		Topic:       s.Topic,
		Difficulty:  diff,
		Prompt:      s.Prompt,
		Options:     options,
		Correct:     correct,
		Explanation: s.Explanation,
	}, nil
}

func scanQuestion(row *sql.Row) (*question.Question, error) {
	var (
		q          question.Question
		difficulty string
		a, b, c, d string
		correct    string
	)
	err := row.Scan(&q.ID, &q.Topic, &difficulty, &q.Prompt,
		&a, &b, &c, &d, &correct, &q.Explanation)
	if err != nil {
		return nil, err
	}
	q.Difficulty = question.Difficulty(difficulty)
	q.Correct = question.Choice(correct)
	q.Options = map[question.Choice]string{
		question.ChoiceA: a, question.ChoiceB: b,
		question.ChoiceC: c, question.ChoiceD: d,
	}
	return &q, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
