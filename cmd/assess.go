package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abiram/quizgraph/internal/assessment"
	"github.com/abiram/quizgraph/internal/llm"
	"github.com/abiram/quizgraph/internal/qgen"
	"github.com/abiram/quizgraph/internal/quiz"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the staged assessment: adaptive probes, then a generated profile",
	Long: "Assess runs the multi-stage assessment: an opening probe, correctness-based\n" +
		"deepening, topic reselection and targeted follow-ups, ending with an AI-generated\n" +
		"profile summary and new practice questions saved to the bank.",
	RunE: func(cmd *cobra.Command, args []string) error {
		maxQuestions, _ := cmd.Flags().GetInt("questions")
		openingTopic, _ := cmd.Flags().GetString("topic")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()

		llmCfg, err := llm.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		provider, err := llm.NewProvider(ctx, llmCfg, st.Events())
		if err != nil {
			return err
		}

		engine, err := quiz.Start(
			quiz.Config{MaxQuestions: maxQuestions},
			st.Questions(),
			quiz.NewPolicy(rand.New(rand.NewSource(time.Now().UnixNano()))),
			quiz.WithRecorder(st.Sessions()),
		)
		if err != nil {
			return err
		}

		wf := assessment.New(
			engine,
			qgen.New(provider, qgen.DefaultConfig()),
			assessment.Config{OpeningTopic: openingTopic},
			assessment.WithArchiver(st.Sessions()),
		)

		in := bufio.NewReader(os.Stdin)
		number := 0

		step, err := wf.Start(ctx)
		if err != nil {
			return err
		}
		for {
			if step.Feedback != nil {
				printFeedback(step.Feedback)
			}

			if step.Synthesis != nil {
				printSynthesis(step.Synthesis)
				break
			}

			if step.Stage == assessment.StageSynthesis {
				fmt.Println("\nGenerating your profile and new practice questions...")
				step, err = wf.Finalize(ctx)
				if err != nil {
					return fmt.Errorf("synthesis failed (run assess again to retry): %w", err)
				}
				continue
			}

			number++
			printQuestion(number, step.Question)
			choice := readChoice(in)
			if choice == "" || choice == "q" {
				if cancelErr := wf.Cancel(); cancelErr != nil {
					return cancelErr
				}
				printPerformance(wf.Performance())
				break
			}

			step, err = wf.Submit(ctx, step.Question.ID, choice)
			if err != nil {
				var unavailable *quiz.ErrSourceUnavailable
				if !errors.As(err, &unavailable) {
					return err
				}
				// The answer is recorded; only the next fetch failed.
				fmt.Fprintln(os.Stderr, "warning: question source unavailable, retrying...")
				step, err = wf.Resume(ctx)
				if err != nil {
					return err
				}
			}
		}

		return st.Sessions().SetStatus(ctx, engine.ID(), engine.Status())
	},
}

func printSynthesis(syn *assessment.Synthesis) {
	fmt.Println("\n--- Your profile ---")
	fmt.Println(syn.Summary)

	if len(syn.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range syn.Recommendations {
			fmt.Printf("  %-24s %-18s %s\n", rec.Topic, rec.Level, rec.Advice)
		}
	}

	if len(syn.Questions) > 0 {
		fmt.Printf("\n%d new questions were added to your bank:\n", len(syn.Questions))
		for _, q := range syn.Questions {
			fmt.Printf("  [%s, %s] %s\n", q.Topic, q.Difficulty, q.Prompt)
		}
	}

	printPerformance(syn.Performance)
}

func init() {
	assessCmd.Flags().IntP("questions", "n", 8, "Maximum number of questions")
	assessCmd.Flags().String("topic", "", "Topic of the opening question (defaults to the first topic)")
}
