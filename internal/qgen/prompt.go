package qgen

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = `You are an assessment designer creating multiple-choice quiz questions.

Rules:
- Generate the requested number of questions targeting the test-taker's weak topics. Weight generation toward unsolved topics; include at most one question per solved topic.
- Every question has exactly four options keyed A, B, C, D, with exactly one correct option.
- Use plain ASCII text. The prompt must be clear and self-contained.
- Distractors should reflect plausible mistakes, not random values.
- Match difficulty to the evidence: use "easy" for topics the test-taker struggled with, "medium" or "hard" where they showed competence.
- Do not repeat any question from the transcript.
- The summary is a 2-4 sentence profile of the test-taker written in the second person: what they do well, where they struggle, and what to practice next.`

// buildUserMessage renders the session evidence for the model, most recent
// transcript entries first to survive truncation.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d new questions.\n", cfg.Count)
	fmt.Fprintf(&b, "\nOverall accuracy: %.0f%%\n", in.Accuracy*100)

	fmt.Fprintf(&b, "Solved topics: %s\n", listOrNone(in.Solved))
	fmt.Fprintf(&b, "Unsolved topics: %s\n", listOrNone(in.Unsolved))

	if len(in.Breakdown) > 0 {
		b.WriteString("\nPer-topic results:\n")
		topics := make([]string, 0, len(in.Breakdown))
		for t := range in.Breakdown {
			topics = append(topics, t)
		}
		sort.Strings(topics)
		for _, t := range topics {
			s := in.Breakdown[t]
			fmt.Fprintf(&b, "- %s: %d/%d correct (%s)\n", t, s.Correct, s.Total, s.Status)
		}
	}

	b.WriteString("\nTranscript:\n")
	b.WriteString(buildTranscript(in.Responses, cfg.MaxTranscript))

	return b.String()
}

// buildTranscript formats answered questions for the prompt, keeping only
// the most recent max entries.
func buildTranscript(responses []Response, max int) string {
	if len(responses) == 0 {
		return "None"
	}
	if max > 0 && len(responses) > max {
		responses = responses[len(responses)-max:]
	}

	var b strings.Builder
	for i, r := range responses {
		verdict := "correct"
		if !r.Correct {
			verdict = "incorrect"
		}
		fmt.Fprintf(&b, "%d. [%s/%s] %s -> answered %s (%s)\n",
			i+1, r.Topic, r.Difficulty, r.Prompt, r.Choice, verdict)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
