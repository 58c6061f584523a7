package sentiment

import (
	"reflect"
	"testing"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

func TestTokenizeSplitsOnNonWordRuns(t *testing.T) {
	got := Tokenize("  Hello, WORLD!! it's snake_case 42--ok ")
	want := []string{"hello", "world", "it", "s", "snake_case", "42", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	if len(Tokenize("   ...  ")) != 0 {
		t.Fatalf("expected no tokens for separator-only text")
	}
}

func TestScoreNoSignalIsNeutralHalf(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())
	sentiment, confidence := scorer.Score("the quick brown fox")
	if sentiment != domain.SentimentNeutral || confidence != 0.5 {
		t.Fatalf("expected (neutral, 0.5), got (%s, %v)", sentiment, confidence)
	}

	sentiment, confidence = scorer.Score("")
	if sentiment != domain.SentimentNeutral || confidence != 0.5 {
		t.Fatalf("expected (neutral, 0.5) for empty text, got (%s, %v)", sentiment, confidence)
	}
}

func TestScorePositiveDominant(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())
	text := "This product is excellent and amazing, I love it"

	sentiment, confidence := scorer.Score(text)
	if sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s", sentiment)
	}
	if confidence < 0.6 || confidence > 0.95 {
		t.Fatalf("expected confidence in [0.6, 0.95], got %v", confidence)
	}

	keywords := scorer.Keywords(text, sentiment)
	want := []string{"excellent", "amazing", "love"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("Keywords() = %v, want %v", keywords, want)
	}
}

func TestScoreNegativeDominant(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())
	sentiment, confidence := scorer.Score("Terrible, awful, worst experience ever")
	if sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative, got %s", sentiment)
	}
	if confidence <= 0.6 || confidence > 0.95 {
		t.Fatalf("expected confidence in (0.6, 0.95], got %v", confidence)
	}
}

func TestScoreConfidenceFormula(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())

	// 2 positive, 1 neutral: 0.6 + 2/3*0.4
	_, confidence := scorer.Score("good great but okay")
	if want := 0.6 + 2.0/3.0*0.4; !almostEqual(confidence, want) {
		t.Fatalf("expected %v, got %v", want, confidence)
	}

	// neutral only: 0.5 + 1*0.4 = 0.9, which is also the neutral ceiling
	sentiment, confidence := scorer.Score("it was okay and fine")
	if sentiment != domain.SentimentNeutral || !almostEqual(confidence, 0.9) {
		t.Fatalf("expected (neutral, 0.9), got (%s, %v)", sentiment, confidence)
	}
}

func TestScoreTieFallsIntoNeutralBranch(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())

	cases := []struct {
		name       string
		text       string
		confidence float64
	}{
		{name: "positive vs negative", text: "good but bad", confidence: 0.5},
		{name: "positive vs neutral", text: "good and okay", confidence: 0.5 + 0.5*0.4},
		{name: "negative vs neutral", text: "bad and okay", confidence: 0.5 + 0.5*0.4},
		{name: "three way", text: "good bad okay", confidence: 0.5 + 1.0/3.0*0.4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sentiment, confidence := scorer.Score(tc.text)
			if sentiment != domain.SentimentNeutral {
				t.Fatalf("expected neutral, got %s", sentiment)
			}
			if !almostEqual(confidence, tc.confidence) {
				t.Fatalf("expected confidence %v, got %v", tc.confidence, confidence)
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())
	text := "Great service, but the delivery was a problem and a bit annoying."
	s1, c1 := scorer.Score(text)
	s2, c2 := scorer.Score(text)
	if s1 != s2 || c1 != c2 {
		t.Fatalf("expected identical scores, got (%s, %v) and (%s, %v)", s1, c1, s2, c2)
	}
}

func TestKeywordsKeepDuplicatesAndCapAtFive(t *testing.T) {
	scorer := NewScorer(DefaultLexicon())
	keywords := scorer.Keywords("good good great best love perfect awesome", domain.SentimentPositive)
	want := []string{"good", "good", "great", "best", "love"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("Keywords() = %v, want %v", keywords, want)
	}

	if got := scorer.Keywords("good", domain.Sentiment("mixed")); len(got) != 0 {
		t.Fatalf("expected no keywords for unknown category, got %v", got)
	}
}

func TestLengthKeywordsIgnoresLexicon(t *testing.T) {
	got := LengthKeywords("I am so very happy with this cool thing, really wonderful stuff")
	want := []string{"very", "happy", "with", "this", "cool"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LengthKeywords() = %v, want %v", got, want)
	}
}

func TestCustomLexiconNormalizesWords(t *testing.T) {
	scorer := NewScorer(NewLexicon([]string{" Stellar "}, []string{"MEH"}, nil))
	sentiment, _ := scorer.Score("a stellar launch")
	if sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive with custom lexicon, got %s", sentiment)
	}
	if scorer.lexicon.Size(domain.SentimentNeutral) != 0 {
		t.Fatalf("expected empty neutral set")
	}
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
