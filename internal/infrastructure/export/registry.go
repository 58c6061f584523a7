// Package export renders analysis results as downloadable reports.
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var errNoResults = errors.New("no analysis results to export")

type Registry struct {
	exporters map[string]ports.ResultExporter
}

func NewRegistry(exporters ...ports.ResultExporter) *Registry {
	r := &Registry{exporters: make(map[string]ports.ResultExporter, len(exporters))}
	for _, exporter := range exporters {
		r.exporters[exporter.Format()] = exporter
	}
	return r
}

// Default returns the csv, json, html and xlsx exporters stamped with the wall clock.
func Default() *Registry {
	return NewRegistry(
		NewCSV(),
		NewJSON(time.Now),
		NewHTML(time.Now),
		NewXLSX(),
	)
}

func (r *Registry) Get(format string) (ports.ResultExporter, error) {
	exporter, ok := r.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"select exporter",
			fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(r.Formats(), ", ")),
		)
	}
	return exporter, nil
}

func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.exporters))
	for format := range r.exporters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Filename is the download name for an export of the given results set.
func Filename(exporter ports.ResultExporter) string {
	return "sentiment-analysis-results" + exporter.FileExtension()
}

func ensureResults(operation string, results []domain.SentimentResult) error {
	if len(results) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, operation, errNoResults)
	}
	return nil
}

func percent(confidence float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, confidence*100)
}
