package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
)

type ProcessJobUseCase struct {
	repo      ports.JobRepository
	extractor ports.ItemExtractor
	analyzer  ports.SentimentAnalyzer
}

func NewProcessJobUseCase(
	repo ports.JobRepository,
	extractor ports.ItemExtractor,
	analyzer ports.SentimentAnalyzer,
) *ProcessJobUseCase {
	return &ProcessJobUseCase{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (uc *ProcessJobUseCase) ProcessByID(ctx context.Context, jobID string) error {
	if err := uc.markStatus(ctx, jobID, domain.JobStatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	results, err := uc.processPipeline(ctx, jobID)
	if err != nil {
		if failErr := uc.markFailed(ctx, jobID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistResults(ctx, jobID, results); err != nil {
		if failErr := uc.markFailed(ctx, jobID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, jobID, domain.JobStatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}

	slog.Info("job_processed", "job_id", jobID, "items", len(results))
	return nil
}

func (uc *ProcessJobUseCase) processPipeline(ctx context.Context, jobID string) (results []domain.SentimentResult, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("job_pipeline_panic", "job_id", jobID, "panic", recovered)
			results = nil
			err = fmt.Errorf("process job: panic: %v", recovered)
		}
	}()

	job, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	items, err := uc.extractItems(ctx, job)
	if err != nil {
		return nil, err
	}

	results, err = uc.analyzer.AnalyzeBatch(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	return results, nil
}

func (uc *ProcessJobUseCase) loadJob(ctx context.Context, jobID string) (*domain.AnalysisJob, error) {
	job, err := uc.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("fetch job by id: %w", err)
	}
	return job, nil
}

func (uc *ProcessJobUseCase) extractItems(ctx context.Context, job *domain.AnalysisJob) ([]domain.BatchItem, error) {
	items, err := uc.extractor.Extract(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("extract items: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract items", errors.New("no text items found in file"))
	}
	return items, nil
}

func (uc *ProcessJobUseCase) persistResults(ctx context.Context, jobID string, results []domain.SentimentResult) error {
	if err := uc.repo.SaveResults(ctx, jobID, results); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

func (uc *ProcessJobUseCase) markStatus(ctx context.Context, jobID string, status domain.JobStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, jobID, status, errMessage)
}

func (uc *ProcessJobUseCase) markFailed(ctx context.Context, jobID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, jobID, domain.JobStatusFailed, processErr.Error())
}
