package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"QUIZGRAPH_LLM_PROVIDER",
		"QUIZGRAPH_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "QUIZGRAPH_ANTHROPIC_MODEL",
		"QUIZGRAPH_OPENAI_API_KEY", "OPENAI_API_KEY", "QUIZGRAPH_OPENAI_MODEL", "QUIZGRAPH_OPENAI_BASE_URL",
		"QUIZGRAPH_GEMINI_API_KEY", "GEMINI_API_KEY", "QUIZGRAPH_GEMINI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDiscoversProvider(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantProvider string
		wantErr      bool
	}{
		{
			name:    "nothing configured",
			env:     nil,
			wantErr: true,
		},
		{
			name:         "anthropic key discovered",
			env:          map[string]string{"ANTHROPIC_API_KEY": "sk-a"},
			wantProvider: "anthropic",
		},
		{
			name:         "openai key discovered",
			env:          map[string]string{"OPENAI_API_KEY": "sk-o"},
			wantProvider: "openai",
		},
		{
			name:         "gemini key discovered",
			env:          map[string]string{"GEMINI_API_KEY": "sk-g"},
			wantProvider: "gemini",
		},
		{
			name: "anthropic wins when several keys exist",
			env: map[string]string{
				"ANTHROPIC_API_KEY": "sk-a",
				"OPENAI_API_KEY":    "sk-o",
			},
			wantProvider: "anthropic",
		},
		{
			name: "explicit provider overrides discovery",
			env: map[string]string{
				"QUIZGRAPH_LLM_PROVIDER": "openai",
				"ANTHROPIC_API_KEY":      "sk-a",
				"OPENAI_API_KEY":         "sk-o",
			},
			wantProvider: "openai",
		},
		{
			name: "explicit provider without its key",
			env: map[string]string{
				"QUIZGRAPH_LLM_PROVIDER": "openai",
				"ANTHROPIC_API_KEY":      "sk-a",
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			env: map[string]string{
				"QUIZGRAPH_LLM_PROVIDER": "llamacpp",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ConfigFromEnv()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, cfg.Provider)
		})
	}
}

func TestConfigFromEnvModelOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-a")
	t.Setenv("QUIZGRAPH_ANTHROPIC_MODEL", "claude-sonnet")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, "claude-sonnet", cfg.ModelID())
}

func TestPrefixedKeysWinOverStandardOnes(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("QUIZGRAPH_LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "standard")
	t.Setenv("QUIZGRAPH_ANTHROPIC_API_KEY", "prefixed")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Anthropic.APIKey)
}
