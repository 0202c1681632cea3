package cmd

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/abiram/quizgraph/internal/question"
	"github.com/abiram/quizgraph/internal/quiz"
)

func printQuestion(number int, v *question.View) {
	fmt.Printf("\nQ%d [%s, %s]\n%s\n", number, v.Topic, v.Difficulty, v.Prompt)
	for _, c := range question.Choices {
		fmt.Printf("  %s) %s\n", c, v.Options[c])
	}
}

// readChoice prompts until it gets A-D or q (quit). Returns "" on EOF.
func readChoice(in *bufio.Reader) string {
	for {
		fmt.Print("Your answer (A-D, q to quit): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return ""
		}
		answer := strings.TrimSpace(line)
		if answer == "q" || answer == "Q" {
			return "q"
		}
		if _, err := question.ParseChoice(answer); err == nil {
			return answer
		}
		fmt.Println("Please answer A, B, C, or D.")
	}
}

func printFeedback(res *quiz.AnswerResult) {
	if res.Correct {
		fmt.Println("Correct!")
	} else {
		fmt.Printf("Incorrect. The answer was %s.\n", res.CorrectOption)
	}
	if res.Explanation != "" {
		fmt.Println(res.Explanation)
	}
}

func printPerformance(perf quiz.Performance) {
	fmt.Printf("\nSession %s (%s)\n", perf.SessionID, perf.Status)
	fmt.Printf("Answered %d: %d correct, %d incorrect (%.0f%%)\n",
		perf.TotalQuestions, perf.CorrectAnswers, perf.IncorrectAnswers, perf.Accuracy*100)

	if len(perf.Breakdown) == 0 {
		return
	}
	topics := make([]string, 0, len(perf.Breakdown))
	for t := range perf.Breakdown {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	fmt.Println("\nBy topic:")
	for _, topic := range topics {
		stats := perf.Breakdown[topic]
		fmt.Printf("  %-24s %d/%d (%s)\n", topic, stats.Correct, stats.Total, stats.Status)
	}
}
