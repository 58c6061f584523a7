package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

// SentimentModel returns per-label scores for text from a classification model.
// Any failure must be reported as domain.ErrRemoteUnavailable.
type SentimentModel interface {
	Predict(ctx context.Context, text string) ([]domain.LabelScore, error)
}

// PredictionCache stores model output keyed by model name and text.
type PredictionCache interface {
	Get(ctx context.Context, key string) ([]domain.LabelScore, bool, error)
	Set(ctx context.Context, key string, candidates []domain.LabelScore, ttl time.Duration) error
}

// AnalysisObserver receives analysis telemetry.
type AnalysisObserver interface {
	ObserveAnalysis(method domain.Method, sentiment domain.Sentiment)
	ObserveFallback(reason string)
	ObserveRemoteCall(duration time.Duration, err error)
	ObserveBatch(size int)
}

// JobRepository persists job state and results.
type JobRepository interface {
	Create(ctx context.Context, job *domain.AnalysisJob) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error
	SaveResults(ctx context.Context, jobID string, results []domain.SentimentResult) error
	ListResults(ctx context.Context, jobID string) ([]domain.SentimentResult, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes job submission events.
type MessageQueue interface {
	PublishJobSubmitted(ctx context.Context, jobID string) error
	SubscribeJobSubmitted(ctx context.Context, handler func(context.Context, string) error) error
}

// ItemExtractor turns a stored upload into batch items.
type ItemExtractor interface {
	Extract(ctx context.Context, job *domain.AnalysisJob) ([]domain.BatchItem, error)
}

// ResultExporter renders results in one export format.
type ResultExporter interface {
	Format() string
	ContentType() string
	FileExtension() string
	Export(w io.Writer, results []domain.SentimentResult) error
}
