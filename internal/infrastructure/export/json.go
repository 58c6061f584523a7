package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

type jsonSummary struct {
	Positive          int     `json:"positive"`
	Negative          int     `json:"negative"`
	Neutral           int     `json:"neutral"`
	AverageConfidence float64 `json:"averageConfidence"`
}

type jsonDocument struct {
	ExportDate   string                   `json:"exportDate"`
	TotalResults int                      `json:"totalResults"`
	Summary      jsonSummary              `json:"summary"`
	Results      []domain.SentimentResult `json:"results"`
}

type JSON struct {
	now func() time.Time
}

func NewJSON(now func() time.Time) *JSON {
	if now == nil {
		now = time.Now
	}
	return &JSON{now: now}
}

func (*JSON) Format() string        { return "json" }
func (*JSON) ContentType() string   { return "application/json" }
func (*JSON) FileExtension() string { return ".json" }

func (e *JSON) Export(w io.Writer, results []domain.SentimentResult) error {
	if err := ensureResults("export json", results); err != nil {
		return err
	}

	summary := domain.Summarize(results)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonDocument{
		ExportDate:   e.now().UTC().Format(timestampLayout),
		TotalResults: summary.Total,
		Summary: jsonSummary{
			Positive:          summary.Positive,
			Negative:          summary.Negative,
			Neutral:           summary.Neutral,
			AverageConfidence: summary.AverageConfidence,
		},
		Results: results,
	}); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}
