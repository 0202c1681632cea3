package assessment

import (
	"fmt"
	"sort"

	"github.com/abiram/quizgraph/internal/catalog"
	"github.com/abiram/quizgraph/internal/question"
	"github.com/abiram/quizgraph/internal/quiz"
)

// Recommendation levels, keyed off per-topic accuracy.
const (
	LevelExcellent        = "excellent"
	LevelGood             = "good"
	LevelNeedsImprovement = "needs_improvement"
)

// Recommendation is per-topic study advice derived from the catalog.
type Recommendation struct {
	Topic    string  `json:"topic"`
	Accuracy float64 `json:"accuracy"`
	Level    string  `json:"level"`
	Advice   string  `json:"advice"`
}

// Synthesis is the workflow's final payload: the generated profile summary
// and new questions (redacted views only), plus locally derived per-topic
// recommendations and the session performance snapshot.
type Synthesis struct {
	Summary         string           `json:"summary"`
	Questions       []question.View  `json:"questions"`
	Recommendations []Recommendation `json:"recommendations"`
	Performance     quiz.Performance `json:"performance"`
}

// Recommend derives study advice for every attempted topic: accuracy at or
// above 0.8 is excellent, at or above 0.6 is good, anything lower needs
// improvement. Topics are ordered by accuracy ascending so the weakest
// come first.
func Recommend(breakdown map[string]catalog.TopicStats) []Recommendation {
	recs := make([]Recommendation, 0, len(breakdown))
	for topic, stats := range breakdown {
		if stats.Total == 0 {
			continue
		}
		rec := Recommendation{Topic: topic, Accuracy: stats.Accuracy}
		switch {
		case stats.Accuracy >= 0.8:
			rec.Level = LevelExcellent
			rec.Advice = fmt.Sprintf("Strong command of %s; keep it sharp with an occasional hard question.", topic)
		case stats.Accuracy >= 0.6:
			rec.Level = LevelGood
			rec.Advice = fmt.Sprintf("Solid on %s; review the questions you missed to close the gap.", topic)
		default:
			rec.Level = LevelNeedsImprovement
			rec.Advice = fmt.Sprintf("Focus your practice on %s, starting from the fundamentals.", topic)
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Accuracy != recs[j].Accuracy {
			return recs[i].Accuracy < recs[j].Accuracy
		}
		return recs[i].Topic < recs[j].Topic
	})
	return recs
}
