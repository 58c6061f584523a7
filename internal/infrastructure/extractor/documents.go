package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/markup"
)

// parsePDF extracts plain text line by line. The pdf reader panics on some
// malformed inputs; that is reported as an error.
func parsePDF(raw []byte) (lines []string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			lines = nil
			err = fmt.Errorf("malformed pdf: %v", recovered)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}
	return nonBlankLines(string(text)), nil
}

// parseXLSX reads the first column of the first sheet, header row excluded.
func parseXLSX(raw []byte) ([]string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var texts []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if text := strings.TrimSpace(row[0]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

func parseHTML(raw []byte) ([]string, error) {
	return markup.HTMLLines(bytes.NewReader(raw))
}
