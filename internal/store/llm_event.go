package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abiram/quizgraph/internal/llm"
)

// EventRepo persists model-call events. It implements llm.EventSink.
type EventRepo struct {
	db *sql.DB
}

// RecordLLMRequest appends one request event.
func (r *EventRepo) RecordLLMRequest(ctx context.Context, ev llm.RequestEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_events (at, provider, model, purpose,
			input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.At.UTC().Format(time.RFC3339Nano), ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs, boolToInt(ev.Success), ev.ErrorMessage)
	if err != nil {
		return fmt.Errorf("record llm event: %w", err)
	}
	return nil
}

// CountByPurpose returns event counts per purpose label.
func (r *EventRepo) CountByPurpose(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT purpose, COUNT(*) FROM llm_events GROUP BY purpose")
	if err != nil {
		return nil, fmt.Errorf("count llm events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var purpose string
		var n int
		if err := rows.Scan(&purpose, &n); err != nil {
			return nil, err
		}
		out[purpose] = n
	}
	return out, rows.Err()
}
