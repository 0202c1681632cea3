package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load questions from a JSON file into the bank",
	Long: "Seed loads a JSON array of questions into the local bank. Each entry has\n" +
		"topic, difficulty (easy/medium/hard), prompt, options keyed A-D,\n" +
		"correct_option, and an optional explanation and id.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		n, err := st.Questions().SeedJSON(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("seed (%d inserted before failure): %w", n, err)
		}
		fmt.Printf("Seeded %d questions.\n", n)
		return nil
	},
}
