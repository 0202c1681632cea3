// Package catalog accumulates per-topic correct/incorrect counts for one
// session and derives topic status from them.
package catalog

// Status classifies a topic by the answers recorded for it.
type Status string

const (
	// StatusUnattempted means no answer has been recorded for the topic.
	StatusUnattempted Status = "unattempted"

	// StatusSolved means at least one correct answer has been recorded.
	// A topic with both correct and incorrect answers is solved: one
	// demonstrated success outweighs any number of misses.
	StatusSolved Status = "solved"

	// StatusUnsolved means only incorrect answers have been recorded.
	StatusUnsolved Status = "unsolved"
)

// TopicRecord holds the counters for one attempted topic.
type TopicRecord struct {
	Topic     string
	Correct   int
	Incorrect int
}

// Attempts is the total number of recorded answers for the topic.
func (r *TopicRecord) Attempts() int {
	return r.Correct + r.Incorrect
}

// Accuracy is Correct / Attempts, 0 when nothing is recorded.
func (r *TopicRecord) Accuracy() float64 {
	total := r.Attempts()
	if total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(total)
}

// Status derives the topic's status from its counters.
func (r *TopicRecord) Status() Status {
	if r.Correct > 0 {
		return StatusSolved
	}
	if r.Incorrect > 0 {
		return StatusUnsolved
	}
	return StatusUnattempted
}

// Catalog tracks topic performance for a single session. Records are created
// lazily on first attempt and only ever accumulate. The catalog itself is not
// goroutine-safe; the session engine is the single writer.
type Catalog struct {
	records map[string]*TopicRecord
	order   []string // insertion order, for deterministic iteration
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{records: make(map[string]*TopicRecord)}
}

// Record adds one answer result for the topic, creating its record if absent.
func (c *Catalog) Record(topic string, correct bool) {
	r, ok := c.records[topic]
	if !ok {
		r = &TopicRecord{Topic: topic}
		c.records[topic] = r
		c.order = append(c.order, topic)
	}
	if correct {
		r.Correct++
	} else {
		r.Incorrect++
	}
}

// Status returns the derived status for topic.
func (c *Catalog) Status(topic string) Status {
	r, ok := c.records[topic]
	if !ok {
		return StatusUnattempted
	}
	return r.Status()
}

// Attempts returns the number of recorded answers for topic, 0 if unattempted.
func (c *Catalog) Attempts(topic string) int {
	if r, ok := c.records[topic]; ok {
		return r.Attempts()
	}
	return 0
}

// SolvedTopics returns attempted topics whose status is solved, in
// first-attempt order.
func (c *Catalog) SolvedTopics() []string {
	return c.topicsWithStatus(StatusSolved)
}

// UnsolvedTopics returns attempted topics whose status is unsolved, in
// first-attempt order.
func (c *Catalog) UnsolvedTopics() []string {
	return c.topicsWithStatus(StatusUnsolved)
}

func (c *Catalog) topicsWithStatus(s Status) []string {
	var topics []string
	for _, t := range c.order {
		if c.records[t].Status() == s {
			topics = append(topics, t)
		}
	}
	return topics
}

// TopicStats is one row of a Breakdown.
type TopicStats struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"`
	Status    Status  `json:"status"`
}

// Breakdown returns per-topic counts and accuracy for every attempted topic.
func (c *Catalog) Breakdown() map[string]TopicStats {
	out := make(map[string]TopicStats, len(c.records))
	for t, r := range c.records {
		out[t] = TopicStats{
			Correct:   r.Correct,
			Incorrect: r.Incorrect,
			Total:     r.Attempts(),
			Accuracy:  r.Accuracy(),
			Status:    r.Status(),
		}
	}
	return out
}

// Summary aggregates the catalog into overall counters.
type Summary struct {
	TotalQuestions   int                   `json:"total_questions"`
	CorrectAnswers   int                   `json:"correct_answers"`
	IncorrectAnswers int                   `json:"incorrect_answers"`
	Accuracy         float64               `json:"accuracy"`
	TopicsAttempted  int                   `json:"topics_attempted"`
	SolvedTopics     []string              `json:"solved_topics"`
	UnsolvedTopics   []string              `json:"unsolved_topics"`
	Breakdown        map[string]TopicStats `json:"topic_breakdown"`
}

// Summarize builds the overall performance summary.
func (c *Catalog) Summarize() Summary {
	s := Summary{
		SolvedTopics:    c.SolvedTopics(),
		UnsolvedTopics:  c.UnsolvedTopics(),
		TopicsAttempted: len(c.records),
		Breakdown:       c.Breakdown(),
	}
	for _, r := range c.records {
		s.CorrectAnswers += r.Correct
		s.IncorrectAnswers += r.Incorrect
	}
	s.TotalQuestions = s.CorrectAnswers + s.IncorrectAnswers
	if s.TotalQuestions > 0 {
		s.Accuracy = float64(s.CorrectAnswers) / float64(s.TotalQuestions)
	}
	return s
}
