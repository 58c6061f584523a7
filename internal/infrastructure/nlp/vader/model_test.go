package vader

import (
	"context"
	"math"
	"testing"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/sentiment"
)

func TestPredictReturnsThreeLabels(t *testing.T) {
	candidates, err := New().Predict(context.Background(), "I love this, it is wonderful!")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for _, candidate := range candidates {
		if candidate.Score < 0 || candidate.Score > 1 {
			t.Fatalf("score out of range: %+v", candidate)
		}
	}
	if candidates[2].Score <= candidates[0].Score || candidates[2].Score <= candidates[1].Score {
		t.Fatalf("expected positive to lead, got %+v", candidates)
	}
}

func TestPredictPositiveText(t *testing.T) {
	candidates, err := New().Predict(context.Background(), "This product is excellent and amazing, I love it")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	assessment, err := sentiment.FromCandidates("x", candidates)
	if err != nil {
		t.Fatalf("FromCandidates() error = %v", err)
	}
	if assessment.Sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s (%+v)", assessment.Sentiment, candidates)
	}
	if assessment.Confidence <= 0.5 {
		t.Fatalf("expected confidence above 0.5, got %v", assessment.Confidence)
	}
}

func TestPredictNeutralText(t *testing.T) {
	candidates, err := New().Predict(context.Background(), "The package arrived on Tuesday")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	assessment, err := sentiment.FromCandidates("x", candidates)
	if err != nil {
		t.Fatalf("FromCandidates() error = %v", err)
	}
	if assessment.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected neutral, got %s (%+v)", assessment.Sentiment, candidates)
	}
}

func TestCandidatesFollowCompound(t *testing.T) {
	tests := []struct {
		name          string
		compound      float64
		neg, neu, pos float64
		want          string
		wantScore     float64
	}{
		{name: "mild positive mostly neutral tokens", compound: 0.3, neg: 0, neu: 0.8, pos: 0.2, want: "positive", wantScore: 0.65},
		{name: "strong negative", compound: -0.9, neg: 0.6, neu: 0.4, pos: 0, want: "negative", wantScore: 0.95},
		{name: "below threshold", compound: 0.04, neg: 0, neu: 0.9, pos: 0.1, want: "neutral", wantScore: 0.96},
		{name: "threshold is polar", compound: -0.05, neg: 0.1, neu: 0.9, pos: 0, want: "negative", wantScore: 0.525},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidates(tt.compound, tt.neg, tt.neu, tt.pos)
			if len(got) != 3 || got[0].Label != "negative" || got[1].Label != "neutral" || got[2].Label != "positive" {
				t.Fatalf("unexpected label order: %+v", got)
			}

			var sum float64
			top := got[0]
			for _, candidate := range got {
				sum += candidate.Score
				if candidate.Score > top.Score {
					top = candidate
				}
			}
			if top.Label != tt.want || math.Abs(top.Score-tt.wantScore) > 1e-9 {
				t.Fatalf("top = %+v, want %s/%v", top, tt.want, tt.wantScore)
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("scores should sum to 1, got %v (%+v)", sum, got)
			}
		})
	}
}

func TestPredictNegativeText(t *testing.T) {
	candidates, err := New().Predict(context.Background(), "Horrible service. I hate it, worst purchase ever!")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	assessment, err := sentiment.FromCandidates("x", candidates)
	if err != nil {
		t.Fatalf("FromCandidates() error = %v", err)
	}
	if assessment.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative, got %s (%+v)", assessment.Sentiment, candidates)
	}
}

func TestPredictRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "https://example.com/only-a-link"} {
		if _, err := New().Predict(context.Background(), text); !domain.IsKind(err, domain.ErrRemoteUnavailable) {
			t.Fatalf("Predict(%q) expected ErrRemoteUnavailable, got %v", text, err)
		}
	}
}

func TestPredictHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Predict(ctx, "fine"); !domain.IsKind(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}
