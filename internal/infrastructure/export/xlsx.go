package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (*XLSX) Format() string { return "xlsx" }
func (*XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (*XLSX) FileExtension() string { return ".xlsx" }

func (*XLSX) Export(w io.Writer, results []domain.SentimentResult) error {
	if err := ensureResults("export xlsx", results); err != nil {
		return err
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename results sheet: %w", err)
	}
	if err := writeRow(book, resultsSheet, 1, toAny(csvHeader)); err != nil {
		return err
	}
	for i, result := range results {
		row := []any{
			result.Text,
			string(result.Sentiment),
			roundPercent(result.Confidence),
			strings.Join(result.Keywords, ", "),
			result.Explanation,
			result.Timestamp.UTC().Format(timestampLayout),
		}
		if err := writeRow(book, resultsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := book.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := domain.Summarize(results)
	summaryRows := [][]any{
		{"Total Analyses", summary.Total},
		{"Positive", summary.Positive},
		{"Negative", summary.Negative},
		{"Neutral", summary.Neutral},
		{"Average Confidence", roundPercent(summary.AverageConfidence)},
	}
	for i, row := range summaryRows {
		if err := writeRow(book, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx export: %w", err)
	}
	return nil
}

func writeRow(book *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := book.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

func roundPercent(confidence float64) float64 {
	return math.Round(confidence*10000) / 100
}
