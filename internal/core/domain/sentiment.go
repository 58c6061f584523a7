package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// Method names the scoring path that produced a result.
type Method string

const (
	MethodRemote    Method = "remote"
	MethodHeuristic Method = "heuristic"
	MethodFallback  Method = "fallback"
)

type SentimentResult struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Sentiment   Sentiment `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Keywords    []string  `json:"keywords"`
	Explanation string    `json:"explanation"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
	Method      Method    `json:"method"`
}

type BatchItem struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// LabelScore is one candidate returned by a sentiment model.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Summary struct {
	Total             int     `json:"total"`
	Positive          int     `json:"positive"`
	Negative          int     `json:"negative"`
	Neutral           int     `json:"neutral"`
	AverageConfidence float64 `json:"averageConfidence"`
}

func Summarize(results []SentimentResult) Summary {
	summary := Summary{Total: len(results)}
	if len(results) == 0 {
		return summary
	}

	var sum float64
	for _, result := range results {
		switch result.Sentiment {
		case SentimentPositive:
			summary.Positive++
		case SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
		sum += result.Confidence
	}
	summary.AverageConfidence = sum / float64(len(results))
	return summary
}
