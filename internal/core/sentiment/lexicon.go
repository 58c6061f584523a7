package sentiment

import (
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

var (
	defaultPositiveWords = []string{
		"excellent", "amazing", "fantastic", "wonderful", "great", "good", "awesome",
		"love", "perfect", "brilliant", "outstanding", "superb", "impressive",
		"delighted", "satisfied", "happy", "pleased", "recommend", "best",
	}
	defaultNegativeWords = []string{
		"terrible", "awful", "horrible", "bad", "worst", "hate", "disappointing",
		"poor", "useless", "pathetic", "disgusting", "annoying", "frustrated",
		"angry", "upset", "dissatisfied", "complaint", "problem", "issue",
	}
	defaultNeutralWords = []string{
		"okay", "average", "normal", "standard", "typical", "regular", "fine",
		"acceptable", "moderate", "fair", "decent", "sufficient",
	}
)

// Lexicon holds the closed word sets used by the heuristic scorer.
// It is immutable once built and safe for concurrent reads.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
	neutral  map[string]struct{}
}

func DefaultLexicon() *Lexicon {
	return NewLexicon(defaultPositiveWords, defaultNegativeWords, defaultNeutralWords)
}

// NewLexicon copies the given words, lowercased and trimmed. Blank entries are ignored.
func NewLexicon(positive, negative, neutral []string) *Lexicon {
	return &Lexicon{
		positive: wordSet(positive),
		negative: wordSet(negative),
		neutral:  wordSet(neutral),
	}
}

func (l *Lexicon) Contains(category domain.Sentiment, word string) bool {
	set := l.set(category)
	if set == nil {
		return false
	}
	_, ok := set[word]
	return ok
}

// Size reports the number of words in a category.
func (l *Lexicon) Size(category domain.Sentiment) int {
	return len(l.set(category))
}

func (l *Lexicon) set(category domain.Sentiment) map[string]struct{} {
	switch category {
	case domain.SentimentPositive:
		return l.positive
	case domain.SentimentNegative:
		return l.negative
	case domain.SentimentNeutral:
		return l.neutral
	default:
		return nil
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// DefaultWords returns copies of the built-in word lists.
func DefaultWords() (positive, negative, neutral []string) {
	return append([]string(nil), defaultPositiveWords...),
		append([]string(nil), defaultNegativeWords...),
		append([]string(nil), defaultNeutralWords...)
}
