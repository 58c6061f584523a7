package sentiment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

// SelectTop returns the highest scoring candidate. Scanning is left to right
// with a strict comparison, so the first of equal scores wins.
func SelectTop(candidates []domain.LabelScore) (domain.LabelScore, bool) {
	if len(candidates) == 0 {
		return domain.LabelScore{}, false
	}
	top := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.Score > top.Score {
			top = candidate
		}
	}
	return top, true
}

// MapLabel folds a model label into the three internal categories.
// LABEL_2 and LABEL_0 are the positive and negative ends of three-class
// roberta sentiment models.
func MapLabel(label string) domain.Sentiment {
	normalized := strings.ToLower(strings.TrimSpace(label))
	switch {
	case label == "LABEL_2" || strings.Contains(normalized, "positive"):
		return domain.SentimentPositive
	case label == "LABEL_0" || strings.Contains(normalized, "negative"):
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// FromCandidates maps model output into an assessment. Empty output or a
// score outside [0,1] is reported as ErrRemoteUnavailable.
func FromCandidates(text string, candidates []domain.LabelScore) (Assessment, error) {
	top, ok := SelectTop(candidates)
	if !ok {
		return Assessment{}, domain.WrapError(domain.ErrRemoteUnavailable, "map model output", errors.New("no candidates"))
	}
	if math.IsNaN(top.Score) || top.Score < 0 || top.Score > 1 {
		return Assessment{}, domain.WrapError(
			domain.ErrRemoteUnavailable,
			"map model output",
			fmt.Errorf("score out of range: %v", top.Score),
		)
	}

	sentiment := MapLabel(top.Label)
	return Assessment{
		Sentiment:   sentiment,
		Confidence:  top.Score,
		Keywords:    LengthKeywords(text),
		Explanation: ExplainRemote(sentiment, top.Score),
		Method:      domain.MethodRemote,
	}, nil
}
