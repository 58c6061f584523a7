package sentiment

import "github.com/kirillkom/sentiment-analyzer/internal/core/domain"

const (
	MaxKeywords = 5

	minRemoteKeywordLength = 4
)

// Keywords returns the first lexicon words of the given category in scan order.
// Repeated words are kept.
func (s *Scorer) Keywords(text string, category domain.Sentiment) []string {
	keywords := make([]string, 0, MaxKeywords)
	for _, token := range Tokenize(text) {
		if len(keywords) == MaxKeywords {
			break
		}
		if s.lexicon.Contains(category, token) {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// LengthKeywords returns the first tokens longer than three characters.
// It ignores the lexicon and is used for model-produced results.
func LengthKeywords(text string) []string {
	keywords := make([]string, 0, MaxKeywords)
	for _, token := range Tokenize(text) {
		if len(keywords) == MaxKeywords {
			break
		}
		if len(token) >= minRemoteKeywordLength {
			keywords = append(keywords, token)
		}
	}
	return keywords
}
