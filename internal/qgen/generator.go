package qgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abiram/quizgraph/internal/llm"
	"github.com/abiram/quizgraph/internal/question"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// synthesisOutput is the raw LLM response before validation.
type synthesisOutput struct {
	Questions []questionOutput `json:"questions"`
	Summary   string           `json:"summary"`
}

type questionOutput struct {
	Topic         string            `json:"topic"`
	Difficulty    string            `json:"difficulty"`
	Prompt        string            `json:"prompt"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correct_option"`
	Explanation   string            `json:"explanation"`
}

// Synthesize produces new questions and a profile summary from the session
// evidence. Questions that fail a validator are dropped; the call fails only
// when the model returns nothing usable.
func (g *LLMGenerator) Synthesize(ctx context.Context, in Input) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "synthesis")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)},
		},
		Schema:      SynthesisSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	var raw synthesisOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse synthesis response: %w", err)
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return nil, fmt.Errorf("synthesis response has empty summary")
	}

	questions := make([]*question.Question, 0, len(raw.Questions))
	for _, out := range raw.Questions {
		q, err := g.convert(out)
		if err != nil {
			continue
		}
		if verr := g.validate(q, in); verr != nil {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("synthesis produced no valid questions")
	}

	return &Result{Questions: questions, Summary: raw.Summary}, nil
}

func (g *LLMGenerator) convert(out questionOutput) (*question.Question, error) {
	diff, err := question.ParseDifficulty(out.Difficulty)
	if err != nil {
		return nil, err
	}
	correct, err := question.ParseChoice(out.CorrectOption)
	if err != nil {
		return nil, err
	}

	options := make(map[question.Choice]string, len(out.Options))
	for key, text := range out.Options {
		c, err := question.ParseChoice(key)
		if err != nil {
			return nil, err
		}
		options[c] = text
	}

	return &question.Question{
		ID:          "gen-" + uuid.NewString(),
		Topic:       out.Topic,
		Difficulty:  diff,
		Prompt:      out.Prompt,
		Options:     options,
		Correct:     correct,
		Explanation: out.Explanation,
	}, nil
}

func (g *LLMGenerator) validate(q *question.Question, in Input) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, in); verr != nil {
			return verr
		}
	}
	return nil
}
