package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
)

type JobQueryUseCase struct {
	repo ports.JobRepository
}

func NewJobQueryUseCase(repo ports.JobRepository) *JobQueryUseCase {
	return &JobQueryUseCase{repo: repo}
}

func (uc *JobQueryUseCase) GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error) {
	job, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListResults returns stored results of a job. Jobs that have not completed
// yet return an empty list.
func (uc *JobQueryUseCase) ListResults(ctx context.Context, jobID string) ([]domain.SentimentResult, error) {
	if _, err := uc.repo.GetByID(ctx, jobID); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	results, err := uc.repo.ListResults(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job results: %w", err)
	}
	if results == nil {
		results = []domain.SentimentResult{}
	}
	return results, nil
}
