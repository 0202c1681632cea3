// Package cmd wires the quizgraph CLI.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abiram/quizgraph/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizgraph",
	Short: "Adaptive multiple-choice assessments in the terminal",
	Long: "Quizgraph runs short multiple-choice assessments that adapt to your per-topic\n" +
		"performance, and an assessment mode that profiles you and generates new\n" +
		"questions for your weak topics.",
}

func Execute() error {
	// A local .env may carry provider API keys. Absence is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZGRAPH_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZGRAPH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
