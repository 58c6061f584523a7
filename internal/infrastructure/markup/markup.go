// Package markup turns HTML and markdown input into plain text for scoring.
package markup

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

var blockElements = map[atom.Atom]struct{}{
	atom.P: {}, atom.Div: {}, atom.Br: {}, atom.Li: {}, atom.Tr: {},
	atom.H1: {}, atom.H2: {}, atom.H3: {}, atom.H4: {}, atom.H5: {}, atom.H6: {},
	atom.Article: {}, atom.Section: {}, atom.Blockquote: {}, atom.Pre: {},
}

// HTMLLines returns the visible text of an HTML document, one entry per
// non-blank line. Script and style contents are skipped.
func HTMLLines(r io.Reader) ([]string, error) {
	var b strings.Builder
	tokenizer := html.NewTokenizer(r)
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return splitLines(b.String()), nil
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.DataAtom == atom.Script || token.DataAtom == atom.Style {
				skipDepth++
			}
			if _, ok := blockElements[token.DataAtom]; ok {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			if tokenizer.Token().DataAtom == atom.Br {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if (token.DataAtom == atom.Script || token.DataAtom == atom.Style) && skipDepth > 0 {
				skipDepth--
			}
			if _, ok := blockElements[token.DataAtom]; ok {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

// MarkdownText renders markdown and keeps only its text, with link targets
// and bare URLs removed and whitespace collapsed.
func MarkdownText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	lines, err := HTMLLines(strings.NewReader(string(rendered)))
	if err != nil {
		return strings.Join(strings.Fields(urlPattern.ReplaceAllString(input, "")), " ")
	}
	text := urlPattern.ReplaceAllString(strings.Join(lines, " "), "")
	return strings.Join(strings.Fields(text), " ")
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
