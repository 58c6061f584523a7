package ports

import (
	"context"
	"io"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

// SentimentAnalyzer is the inbound contract for single and batch analysis.
// Analyze never fails; AnalyzeBatch only fails when ctx is cancelled.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text, source string) domain.SentimentResult
	AnalyzeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.SentimentResult, error)
}

// JobSubmitter is the inbound contract for file upload orchestration.
type JobSubmitter interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.AnalysisJob, error)
}

// JobReader is the inbound read model for job state and stored results.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error)
	ListResults(ctx context.Context, jobID string) ([]domain.SentimentResult, error)
}

// JobProcessor is the inbound contract for asynchronous job processing.
type JobProcessor interface {
	ProcessByID(ctx context.Context, jobID string) error
}
