package sentiment

import (
	"fmt"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence > 0.8:
		return "high"
	case confidence > 0.6:
		return "moderate"
	default:
		return "low"
	}
}

// Explain renders the keyword-aware explanation used by the heuristic path.
func Explain(sentiment domain.Sentiment, keywords []string, confidence float64) string {
	label := ConfidenceLabel(confidence)
	if len(keywords) == 0 {
		return fmt.Sprintf(
			"This text was classified as %s with %s confidence based on overall tone and context.",
			sentiment, label,
		)
	}

	keywordText := fmt.Sprintf("the word %q", keywords[0])
	if len(keywords) > 1 {
		keywordText = `words like "` + strings.Join(keywords, `", "`) + `"`
	}
	return fmt.Sprintf(
		"This text was classified as %s with %s confidence primarily due to %s which indicate %s sentiment.",
		sentiment, label, keywordText, sentiment,
	)
}

// ExplainFallback renders the terse explanation used when the remote model failed.
func ExplainFallback(sentiment domain.Sentiment, confidence float64) string {
	return fmt.Sprintf(
		"This text was classified as %s with %s confidence using fallback analysis.",
		sentiment, ConfidenceLabel(confidence),
	)
}

func ExplainRemote(sentiment domain.Sentiment, confidence float64) string {
	return fmt.Sprintf(
		"This text was classified as %s with %s confidence (%.1f%%) using advanced NLP analysis.",
		sentiment, ConfidenceLabel(confidence), confidence*100,
	)
}
