package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abiram/quizgraph/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM configuration and request events",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := llm.ConfigFromEnv()
		if err != nil {
			fmt.Println("No LLM provider configured.")
			fmt.Println("Set QUIZGRAPH_LLM_PROVIDER or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY.")
			return nil
		}
		fmt.Printf("Provider: %s\n", cfg.Provider)
		fmt.Printf("Model:    %s\n", cfg.ModelID())
		return nil
	},
}

var llmEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show request counts by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		counts, err := st.Events().CountByPurpose(cmd.Context())
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No LLM events recorded.")
			return nil
		}

		purposes := make([]string, 0, len(counts))
		for p := range counts {
			purposes = append(purposes, p)
		}
		sort.Strings(purposes)
		for _, p := range purposes {
			fmt.Printf("%-20s %d\n", p, counts[p])
		}
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmEventsCmd)
}
