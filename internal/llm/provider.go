// Package llm abstracts the text-generation providers behind a single
// Provider interface with structured JSON output.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends prompts to a model and returns structured output. When a
// Request carries a Schema the response content is JSON validated against
// it; otherwise it is the raw text.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Schema names a JSON Schema the response must conform to. Definition is
// the schema as a plain map so each provider can translate it to its own
// structured-output mechanism.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Single-turn generation passes one
	// user message.
	Messages []Message

	// Schema, when set, constrains the output to validated JSON.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0,1]; 0 when unset.
	Temperature float64
}

// Usage reports token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the model output.
type Response struct {
	// Content is validated JSON when the request carried a schema,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}
