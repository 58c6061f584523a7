// Package extractor turns uploaded files into batch items for analysis.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
)

const maxFileBytes = 32 << 20

type parseFunc func(raw []byte) ([]string, error)

var parsers = map[string]parseFunc{
	".txt":  parseLines,
	".csv":  parseCSV,
	".json": parseJSON,
	".pdf":  parsePDF,
	".xlsx": parseXLSX,
	".html": parseHTML,
	".htm":  parseHTML,
}

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, job *domain.AnalysisJob) ([]domain.BatchItem, error) {
	reader, err := e.storage.Open(ctx, job.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer reader.Close()

	return Parse(job.Filename, reader)
}

// Supported reports whether the file extension has a parser.
func Supported(filename string) bool {
	_, ok := parsers[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Parse reads a file by extension and returns one item per text entry, each
// tagged with the file name as its source.
func Parse(filename string, r io.Reader) ([]domain.BatchItem, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parse, ok := parsers[ext]
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse file", fmt.Errorf("unsupported file type %q", ext))
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	if len(raw) > maxFileBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse file", fmt.Errorf("file exceeds %d bytes", maxFileBytes))
	}

	texts, err := parse(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse "+strings.TrimPrefix(ext, ".")+" file", err)
	}

	source := filepath.Base(filename)
	items := make([]domain.BatchItem, 0, len(texts))
	for _, text := range texts {
		items = append(items, domain.BatchItem{Text: text, Source: source})
	}
	return items, nil
}

func parseLines(raw []byte) ([]string, error) {
	return nonBlankLines(string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))), nil
}

func nonBlankLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
