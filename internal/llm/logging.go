package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose labels the context so logged events say what the request was
// for ("question-gen", "profile-summary", ...).
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label, "unknown" when unset.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// RequestEvent describes one model call for the event log. Prompts and
// responses are deliberately not captured here: events are operational
// metadata only.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	At           time.Time
}

// EventSink receives request events. The store implements this.
type EventSink interface {
	RecordLLMRequest(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider decorates a Provider, recording every call as an event.
type LoggingProvider struct {
	inner Provider
	name  string
	sink  EventSink
}

// WithLogging wraps p with event logging under the given provider name.
func WithLogging(p Provider, name string, sink EventSink) Provider {
	return &LoggingProvider{inner: p, name: name, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	ev := RequestEvent{
		Provider:  l.name,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		At:        start,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Never fail a request because the event could not be written.
	if logErr := l.sink.RecordLLMRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log model request event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
