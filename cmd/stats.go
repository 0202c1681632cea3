package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question bank and session statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		stats, err := st.Sessions().Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Questions:   %d (%d generated)\n", stats.Questions, stats.GeneratedQuestions)
		fmt.Printf("Sessions:    %d\n", stats.Sessions)
		fmt.Printf("Submissions: %d (%d correct", stats.Submissions, stats.CorrectSubmissions)
		if stats.Submissions > 0 {
			fmt.Printf(", %.0f%%", stats.Accuracy*100)
		}
		fmt.Println(")")
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		topics, err := st.Questions().Topics(cmd.Context())
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("The question bank is empty. Load questions with: quizgraph seed <file.json>")
			return nil
		}
		for _, t := range topics {
			fmt.Println(t)
		}
		return nil
	},
}
