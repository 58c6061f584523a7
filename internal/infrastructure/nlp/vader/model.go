// Package vader provides an offline sentiment model backed by the VADER lexicon.
package vader

import (
	"context"
	"errors"
	"math"

	"github.com/jonreiter/govader"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/markup"
)

const ModelName = "vader"

// Compound scores inside (-polarityThreshold, polarityThreshold) read as neutral.
const polarityThreshold = 0.05

type Model struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func New() *Model {
	return &Model{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (m *Model) Model() string {
	return ModelName
}

// Predict labels text by VADER's compound score and returns label scores in
// negative, neutral, positive order. Markdown formatting and URLs are stripped
// first.
func (m *Model) Predict(ctx context.Context, text string) ([]domain.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrRemoteUnavailable, "vader predict", err)
	}

	plain := markup.MarkdownText(text)
	if plain == "" {
		return nil, domain.WrapError(domain.ErrRemoteUnavailable, "vader predict", errors.New("no scorable text"))
	}

	scores := m.analyzer.PolarityScores(plain)
	if scores.Negative+scores.Neutral+scores.Positive == 0 {
		return nil, domain.WrapError(domain.ErrRemoteUnavailable, "vader predict", errors.New("no scorable tokens"))
	}
	return candidates(scores.Compound, scores.Negative, scores.Neutral, scores.Positive), nil
}

// candidates turns a compound score into label scores. The winning label gets
// 0.5+|compound|/2 when polar and 1-|compound| when neutral, so it always
// exceeds the other two. The remainder is split between the losing labels by
// their VADER proportions.
func candidates(compound, negative, neutral, positive float64) []domain.LabelScore {
	scores := map[string]float64{"negative": negative, "neutral": neutral, "positive": positive}

	winner := "neutral"
	confidence := 1 - math.Abs(compound)
	switch {
	case compound >= polarityThreshold:
		winner = "positive"
		confidence = 0.5 + compound/2
	case compound <= -polarityThreshold:
		winner = "negative"
		confidence = 0.5 - compound/2
	}

	var losers float64
	for label, score := range scores {
		if label != winner {
			losers += score
		}
	}

	remainder := 1 - confidence
	out := make([]domain.LabelScore, 0, len(scores))
	for _, label := range []string{"negative", "neutral", "positive"} {
		score := confidence
		if label != winner {
			if losers > 0 {
				score = remainder * scores[label] / losers
			} else {
				score = remainder / 2
			}
		}
		out = append(out, domain.LabelScore{Label: label, Score: score})
	}
	return out
}
