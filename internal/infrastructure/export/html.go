package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

//go:embed report.html.tmpl
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": percent,
	"upper":   func(s domain.Sentiment) string { return strings.ToUpper(string(s)) },
	"join":    strings.Join,
	"stamp":   func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05 MST") },
}).Parse(reportTemplate))

type reportView struct {
	GeneratedOn string
	Summary     domain.Summary
	Results     []domain.SentimentResult
}

// HTML renders a printable report with a summary block and one section per result.
type HTML struct {
	now func() time.Time
}

func NewHTML(now func() time.Time) *HTML {
	if now == nil {
		now = time.Now
	}
	return &HTML{now: now}
}

func (*HTML) Format() string        { return "html" }
func (*HTML) ContentType() string   { return "text/html; charset=utf-8" }
func (*HTML) FileExtension() string { return ".html" }

func (e *HTML) Export(w io.Writer, results []domain.SentimentResult) error {
	if err := ensureResults("export html", results); err != nil {
		return err
	}
	view := reportView{
		GeneratedOn: e.now().UTC().Format("2006-01-02"),
		Summary:     domain.Summarize(results),
		Results:     results,
	}
	if err := reportTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
