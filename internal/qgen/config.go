package qgen

// Config tunes the LLM-backed generator.
type Config struct {
	// Count is how many new questions to ask the model for.
	Count int

	// MaxTranscript caps how many transcript entries are included in the
	// prompt, keeping token use bounded on long sessions. Most recent
	// entries win.
	MaxTranscript int

	MaxTokens   int
	Temperature float64

	Validators []Validator
}

// DefaultConfig returns the generator defaults: five questions, structural
// and dedup validation.
func DefaultConfig() Config {
	return Config{
		Count:         5,
		MaxTranscript: 25,
		MaxTokens:     3072,
		Temperature:   0.7,
		Validators:    []Validator{StructuralValidator{}, DedupValidator{}},
	}
}
