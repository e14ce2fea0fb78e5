package domain

// SentimentLabel classifies a mood score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Mood score bounds (inclusive).
const (
	MinMoodScore = 1
	MaxMoodScore = 10
)

// Sentiment is the (score, label) pair derived from a mood score.
type Sentiment struct {
	Score float64        `json:"score" example:"0.67"`
	Label SentimentLabel `json:"label" example:"positive"`
}

// ValidMoodScore reports whether s lies in [MinMoodScore, MaxMoodScore].
func ValidMoodScore(s int) bool {
	return s >= MinMoodScore && s <= MaxMoodScore
}

// AnalyzeMood maps a mood score to a sentiment with a piecewise-linear rule:
//
//	score >= 7: positive,  0.5 + (score-7)*0.17
//	score <= 4: negative, -0.5 - (4-score)*0.17
//	otherwise:  neutral,  (score-5.5)*0.33
//
// The result is deterministic; callers validate the range first.
func AnalyzeMood(score int) Sentiment {
	switch {
	case score >= 7:
		return Sentiment{Score: 0.5 + float64(score-7)*0.17, Label: SentimentPositive}
	case score <= 4:
		return Sentiment{Score: -0.5 - float64(4-score)*0.17, Label: SentimentNegative}
	default:
		return Sentiment{Score: (float64(score) - 5.5) * 0.33, Label: SentimentNeutral}
	}
}
