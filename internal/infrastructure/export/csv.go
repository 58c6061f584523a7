package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

var csvHeader = []string{"Text", "Sentiment", "Confidence", "Keywords", "Explanation", "Timestamp"}

// CSV quotes the free-text columns unconditionally so spreadsheet imports
// keep commas and newlines inside one cell.
type CSV struct{}

func NewCSV() *CSV { return &CSV{} }

func (*CSV) Format() string        { return "csv" }
func (*CSV) ContentType() string   { return "text/csv; charset=utf-8" }
func (*CSV) FileExtension() string { return ".csv" }

func (*CSV) Export(w io.Writer, results []domain.SentimentResult) error {
	if err := ensureResults("export csv", results); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(csvHeader, ","))
	for _, result := range results {
		bw.WriteByte('\n')
		bw.WriteString(strings.Join([]string{
			quoteCSV(result.Text),
			string(result.Sentiment),
			percent(result.Confidence, 2),
			quoteCSV(strings.Join(result.Keywords, ", ")),
			quoteCSV(result.Explanation),
			result.Timestamp.UTC().Format(timestampLayout),
		}, ","))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

func quoteCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
