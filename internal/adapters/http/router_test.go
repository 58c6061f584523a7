package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/config"
	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

type analyzerFake struct {
	batchErr error
	batches  [][]domain.BatchItem
}

func (f *analyzerFake) Analyze(_ context.Context, text, source string) domain.SentimentResult {
	return domain.SentimentResult{
		ID:          "res-1",
		Text:        text,
		Sentiment:   domain.SentimentPositive,
		Confidence:  0.8,
		Keywords:    []string{"great"},
		Explanation: "Detected positive sentiment",
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:      source,
		Method:      domain.MethodHeuristic,
	}
}

func (f *analyzerFake) AnalyzeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.SentimentResult, error) {
	f.batches = append(f.batches, items)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	results := make([]domain.SentimentResult, 0, len(items))
	for _, item := range items {
		results = append(results, f.Analyze(ctx, item.Text, item.Source))
	}
	return results, nil
}

type submitterFake struct {
	err      error
	filename string
	body     string
}

func (f *submitterFake) Upload(_ context.Context, filename, _ string, body io.Reader) (*domain.AnalysisJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(body)
	f.filename = filename
	f.body = string(data)
	return &domain.AnalysisJob{ID: "job-1", Filename: filename, Status: domain.JobStatusUploaded}, nil
}

type jobReaderFake struct {
	err     error
	results []domain.SentimentResult
}

func (f *jobReaderFake) GetByID(_ context.Context, id string) (*domain.AnalysisJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisJob{ID: id, Filename: "reviews.csv", Status: domain.JobStatusCompleted, ItemCount: len(f.results)}, nil
}

func (f *jobReaderFake) ListResults(context.Context, string) ([]domain.SentimentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestHandler(cfg config.Config, analyzer *analyzerFake, submitter *submitterFake, jobs *jobReaderFake) http.Handler {
	if analyzer == nil {
		analyzer = &analyzerFake{}
	}
	if submitter == nil {
		submitter = &submitterFake{}
	}
	if jobs == nil {
		jobs = &jobReaderFake{}
	}
	return NewRouter(cfg, analyzer, submitter, jobs, nil, nil).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestAnalyzeTextReturnsResult(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	res := postJSON(t, handler, "/v1/sentiment/analyze", map[string]any{"text": "great product", "source": "web"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var result domain.SentimentResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Text != "great product" || result.Source != "web" || result.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected result: %+v", result)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAnalyzeTextRejectsBlankText(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	for _, text := range []string{"", "   "} {
		res := postJSON(t, handler, "/v1/sentiment/analyze", map[string]any{"text": text})
		if res.Code != http.StatusBadRequest {
			t.Fatalf("text %q: expected 400, got %d", text, res.Code)
		}
	}
}

func TestAnalyzeTextRejectsMissingField(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	res := postJSON(t, handler, "/v1/sentiment/analyze", map[string]any{"source": "web"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from contract validation, got %d", res.Code)
	}
}

func TestAnalyzeBatchReturnsResultsAndSummary(t *testing.T) {
	analyzer := &analyzerFake{}
	handler := newTestHandler(config.Config{}, analyzer, nil, nil)

	res := postJSON(t, handler, "/v1/sentiment/batch", map[string]any{
		"items": []map[string]string{{"text": "one"}, {"text": "two", "source": "b"}},
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp resultListResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].Text != "one" || resp.Results[1].Source != "b" {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	if resp.Summary.Total != 2 || resp.Summary.Positive != 2 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
}

func TestAnalyzeBatchRejectsEmptyAndBlankItems(t *testing.T) {
	analyzer := &analyzerFake{}
	handler := newTestHandler(config.Config{}, analyzer, nil, nil)

	res := postJSON(t, handler, "/v1/sentiment/batch", map[string]any{"items": []any{}})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("empty items: expected 400, got %d", res.Code)
	}

	res = postJSON(t, handler, "/v1/sentiment/batch", map[string]any{
		"items": []map[string]string{{"text": "ok"}, {"text": "  "}},
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("blank item: expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "items[1]") {
		t.Fatalf("expected offending index in error, got %s", res.Body.String())
	}
	if len(analyzer.batches) != 0 {
		t.Fatalf("analyzer must not run for invalid batches")
	}
}

func TestSubmitJobAccepted(t *testing.T) {
	submitter := &submitterFake{}
	handler := newTestHandler(config.Config{APIMaxUploadBytes: 1 << 20}, nil, submitter, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "reviews.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("good\nbad\n"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if submitter.filename != "reviews.txt" || submitter.body != "good\nbad\n" {
		t.Fatalf("unexpected upload: %q %q", submitter.filename, submitter.body)
	}
}

func TestSubmitJobMapsInvalidInputTo400(t *testing.T) {
	submitter := &submitterFake{err: domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("unsupported file type"))}
	handler := newTestHandler(config.Config{}, nil, submitter, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "image.png")
	_, _ = part.Write([]byte{0x89, 0x50})
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestJobResultsIncludeSummary(t *testing.T) {
	jobs := &jobReaderFake{results: []domain.SentimentResult{
		{ID: "a", Text: "x", Sentiment: domain.SentimentNegative, Confidence: 0.6, Keywords: []string{}},
		{ID: "b", Text: "y", Sentiment: domain.SentimentNeutral, Confidence: 0.4, Keywords: []string{}},
	}}
	handler := newTestHandler(config.Config{}, nil, nil, jobs)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/results", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp resultListResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary.Negative != 1 || resp.Summary.Neutral != 1 || len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestExportJobResultsSetsAttachmentHeaders(t *testing.T) {
	jobs := &jobReaderFake{results: []domain.SentimentResult{
		{ID: "a", Text: "great", Sentiment: domain.SentimentPositive, Confidence: 0.9, Keywords: []string{"great"}, Timestamp: time.Now().UTC()},
	}}
	handler := newTestHandler(config.Config{}, nil, nil, jobs)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/export?format=json", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if got := res.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := res.Header().Get("Content-Disposition"); !strings.Contains(got, "sentiment-analysis-results.json") {
		t.Fatalf("unexpected content disposition %q", got)
	}
}

func TestExportJobResultsDefaultsToCSV(t *testing.T) {
	jobs := &jobReaderFake{results: []domain.SentimentResult{
		{ID: "a", Text: "great", Sentiment: domain.SentimentPositive, Confidence: 0.9, Keywords: []string{}, Timestamp: time.Now().UTC()},
	}}
	handler := newTestHandler(config.Config{}, nil, nil, jobs)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.HasPrefix(res.Body.String(), "Text,Sentiment,Confidence,Keywords,Explanation,Timestamp") {
		t.Fatalf("expected csv header, got %q", res.Body.String())
	}
}

func TestExportJobResultsRejectsUnknownFormat(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, &jobReaderFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/export?format=pdf", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExportJobResultsWithoutResultsIs400(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, &jobReaderFake{results: []domain.SentimentResult{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/export?format=csv", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestServesOpenAPIContract(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "operationId: AnalyzeText") {
		t.Fatalf("expected contract, got %d", res.Code)
	}
}
