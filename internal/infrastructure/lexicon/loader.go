// Package lexicon loads custom word lists for the heuristic scorer from YAML.
package lexicon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/sentiment"
)

const (
	ModeReplace = "replace"
	ModeExtend  = "extend"
)

// File is the on-disk lexicon format. In extend mode the lists are added to
// the built-in ones; in replace mode they are used as given.
type File struct {
	Mode     string   `yaml:"mode"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Neutral  []string `yaml:"neutral"`
}

// Load reads a lexicon file. An empty path returns the built-in lexicon.
func Load(path string) (*sentiment.Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return sentiment.DefaultLexicon(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*sentiment.Lexicon, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse lexicon", errors.New("empty lexicon file"))
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse lexicon", err)
	}

	mode := strings.ToLower(strings.TrimSpace(file.Mode))
	switch mode {
	case "", ModeExtend:
		positive, negative, neutral := sentiment.DefaultWords()
		return sentiment.NewLexicon(
			append(positive, file.Positive...),
			append(negative, file.Negative...),
			append(neutral, file.Neutral...),
		), nil
	case ModeReplace:
		lex := sentiment.NewLexicon(file.Positive, file.Negative, file.Neutral)
		if lex.Size(domain.SentimentPositive)+lex.Size(domain.SentimentNegative)+lex.Size(domain.SentimentNeutral) == 0 {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse lexicon", errors.New("replace mode with no words"))
		}
		return lex, nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse lexicon", fmt.Errorf("unknown mode %q", file.Mode))
	}
}
