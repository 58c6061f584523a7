package sentiment

import (
	"math"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

const (
	noSignalConfidence = 0.5

	polarBase    = 0.6
	polarSpread  = 0.4
	polarCeiling = 0.95

	neutralBase    = 0.5
	neutralSpread  = 0.4
	neutralCeiling = 0.9
)

// Counts is the per-category number of lexicon hits in a text.
type Counts struct {
	Positive int
	Negative int
	Neutral  int
}

func (c Counts) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

type Scorer struct {
	lexicon *Lexicon
}

func NewScorer(lexicon *Lexicon) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{lexicon: lexicon}
}

func (s *Scorer) Count(text string) Counts {
	var counts Counts
	for _, token := range Tokenize(text) {
		if s.lexicon.Contains(domain.SentimentPositive, token) {
			counts.Positive++
		}
		if s.lexicon.Contains(domain.SentimentNegative, token) {
			counts.Negative++
		}
		if s.lexicon.Contains(domain.SentimentNeutral, token) {
			counts.Neutral++
		}
	}
	return counts
}

// Score classifies text by lexicon hits. A category wins only when it is
// strictly greater than both others, checked positive first, then negative;
// every other case, ties included, takes the neutral branch.
func (s *Scorer) Score(text string) (domain.Sentiment, float64) {
	counts := s.Count(text)
	total := float64(counts.Total())
	if total == 0 {
		return domain.SentimentNeutral, noSignalConfidence
	}

	switch {
	case counts.Positive > counts.Negative && counts.Positive > counts.Neutral:
		return domain.SentimentPositive, math.Min(polarCeiling, polarBase+float64(counts.Positive)/total*polarSpread)
	case counts.Negative > counts.Positive && counts.Negative > counts.Neutral:
		return domain.SentimentNegative, math.Min(polarCeiling, polarBase+float64(counts.Negative)/total*polarSpread)
	default:
		return domain.SentimentNeutral, math.Min(neutralCeiling, neutralBase+float64(counts.Neutral)/total*neutralSpread)
	}
}
