package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped with retry, a request
// timeout, and, when a sink is given, event logging. Middleware order:
// caller → timeout → retry → logging → base, so the timeout bounds all
// attempts together and every attempt is logged individually.
func NewProvider(ctx context.Context, cfg Config, sink EventSink) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if sink != nil {
		base = WithLogging(base, cfg.Provider, sink)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
