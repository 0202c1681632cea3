package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abiram/quizgraph/internal/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run an adaptive quiz from the local question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		maxQuestions, _ := cmd.Flags().GetInt("questions")
		topics, _ := cmd.Flags().GetStringSlice("topics")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		engine, err := quiz.Start(
			quiz.Config{MaxQuestions: maxQuestions, Topics: topics},
			st.Questions(),
			quiz.NewPolicy(rand.New(rand.NewSource(time.Now().UnixNano()))),
			quiz.WithRecorder(st.Sessions()),
		)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		in := bufio.NewReader(os.Stdin)

		number := 0
		for {
			v, err := engine.NextQuestion(ctx)
			if err != nil {
				var exhausted *quiz.ErrSessionExhausted
				if errors.As(err, &exhausted) {
					fmt.Println("\nNo more questions available.")
					break
				}
				return err
			}
			number++
			printQuestion(number, &v)

			choice := readChoice(in)
			if choice == "" || choice == "q" {
				if endErr := engine.End(); endErr != nil {
					return endErr
				}
				break
			}

			res, err := engine.SubmitAnswer(ctx, v.ID, choice)
			if err != nil {
				return err
			}
			printFeedback(res)
			if res.Completed {
				break
			}
		}

		if err := st.Sessions().SetStatus(ctx, engine.ID(), engine.Status()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save session status: %v\n", err)
		}
		printPerformance(engine.Performance())
		return nil
	},
}

func init() {
	playCmd.Flags().IntP("questions", "n", quiz.DefaultMaxQuestions, "Maximum number of questions")
	playCmd.Flags().StringSlice("topics", nil, "Restrict the quiz to these topics")
}
