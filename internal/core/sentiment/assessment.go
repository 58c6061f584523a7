package sentiment

import "github.com/kirillkom/sentiment-analyzer/internal/core/domain"

// Assessment is a scoring outcome before it is stamped with id, time and source.
type Assessment struct {
	Sentiment   domain.Sentiment
	Confidence  float64
	Keywords    []string
	Explanation string
	Method      domain.Method
}

// Heuristic scores text locally and explains it with the keyword-aware template.
func (s *Scorer) Heuristic(text string) Assessment {
	sentiment, confidence := s.Score(text)
	keywords := s.Keywords(text, sentiment)
	return Assessment{
		Sentiment:   sentiment,
		Confidence:  confidence,
		Keywords:    keywords,
		Explanation: Explain(sentiment, keywords, confidence),
		Method:      domain.MethodHeuristic,
	}
}

// Fallback scores text locally when the remote model could not be used.
// Keywords are still extracted but the explanation does not quote them.
func (s *Scorer) Fallback(text string) Assessment {
	sentiment, confidence := s.Score(text)
	return Assessment{
		Sentiment:   sentiment,
		Confidence:  confidence,
		Keywords:    s.Keywords(text, sentiment),
		Explanation: ExplainFallback(sentiment, confidence),
		Method:      domain.MethodFallback,
	}
}
