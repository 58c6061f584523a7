package sentiment

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`\W+`)

// Tokenize lowercases text and splits it on runs of non-word characters.
// Word characters are ASCII letters, digits and underscore; empty tokens are dropped.
func Tokenize(text string) []string {
	parts := nonWordPattern.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, part := range parts {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
