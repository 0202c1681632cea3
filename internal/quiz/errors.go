package quiz

import "fmt"

// ErrInvalidConfig indicates bad session start parameters. Fatal to the
// call, not the process.
type ErrInvalidConfig struct {
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return "invalid session configuration: " + e.Reason
}

// ErrSessionExhausted indicates no eligible question remains for the
// session's constraints. Expected terminal condition: the session has been
// moved to StatusCompleted by the time this is returned.
type ErrSessionExhausted struct{}

func (e *ErrSessionExhausted) Error() string {
	return "question pool exhausted for this session"
}

// ErrSessionClosed indicates a mutating call on a completed or ended
// session. Terminal states admit no further transitions.
type ErrSessionClosed struct {
	Status Status
}

func (e *ErrSessionClosed) Error() string {
	return fmt.Sprintf("session is %s; no further answers accepted", e.Status)
}

// ErrStaleQuestion indicates an answer submitted out of order, twice, or
// for a question the session never issued. The session stays active.
type ErrStaleQuestion struct {
	QuestionID string
}

func (e *ErrStaleQuestion) Error() string {
	return fmt.Sprintf("question %s is not the pending question", e.QuestionID)
}

// ErrInvalidAnswer indicates a choice outside A-D. Rejected before any
// state is touched.
type ErrInvalidAnswer struct {
	Err error
}

func (e *ErrInvalidAnswer) Error() string {
	return e.Err.Error()
}

func (e *ErrInvalidAnswer) Unwrap() error { return e.Err }

// ErrSourceUnavailable indicates the question source failed or timed out.
// Retryable: the session remains active and the caller may repeat the call.
type ErrSourceUnavailable struct {
	Err error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("question source unavailable: %v", e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Err }
