package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

const schemaLockID = int64(2026101601)

type JobRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db, now: time.Now}
}

func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analysis_jobs (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	item_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_jobs_status ON analysis_jobs(status);
CREATE INDEX IF NOT EXISTS idx_analysis_jobs_created_at ON analysis_jobs(created_at DESC);

CREATE TABLE IF NOT EXISTS sentiment_results (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	explanation TEXT NOT NULL,
	method TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	analyzed_at TIMESTAMPTZ NOT NULL,
	UNIQUE (job_id, position)
);

CREATE INDEX IF NOT EXISTS idx_sentiment_results_job ON sentiment_results(job_id, position);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.AnalysisJob) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_jobs (
	id, filename, mime_type, storage_path, status, item_count, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		job.ID, job.Filename, job.MimeType, job.StoragePath, string(job.Status),
		job.ItemCount, job.Error, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, status, item_count, error_message, created_at, updated_at
FROM analysis_jobs
WHERE id = $1
`, id)

	var job domain.AnalysisJob
	var status string
	err := row.Scan(
		&job.ID, &job.Filename, &job.MimeType, &job.StoragePath, &status,
		&job.ItemCount, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJobNotFound, "get job", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Status = domain.JobStatus(status)
	return &job, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE analysis_jobs
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, r.now().UTC())
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return requireAffected(res, "update job status", id)
}

// SaveResults replaces the stored results of a job and records the item count
// in one transaction.
func (r *JobRepository) SaveResults(ctx context.Context, jobID string, results []domain.SentimentResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentiment_results WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("clear previous results: %w", err)
	}

	for position, result := range results {
		keywords, err := json.Marshal(result.Keywords)
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO sentiment_results (
	id, job_id, position, text, sentiment, confidence, keywords, explanation, method, source, analyzed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
			result.ID, jobID, position, result.Text, string(result.Sentiment), result.Confidence,
			keywords, result.Explanation, string(result.Method), result.Source, result.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert result %d: %w", position, err)
		}
	}

	res, err := tx.ExecContext(ctx, `
UPDATE analysis_jobs
SET item_count = $2, updated_at = $3
WHERE id = $1
`, jobID, len(results), r.now().UTC())
	if err != nil {
		return fmt.Errorf("update item count: %w", err)
	}
	if err := requireAffected(res, "save results", jobID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results tx: %w", err)
	}
	return nil
}

func (r *JobRepository) ListResults(ctx context.Context, jobID string) ([]domain.SentimentResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, text, sentiment, confidence, keywords, explanation, method, source, analyzed_at
FROM sentiment_results
WHERE job_id = $1
ORDER BY position
`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SentimentResult, 0)
	for rows.Next() {
		var result domain.SentimentResult
		var sentiment, method string
		var keywordsRaw []byte
		if err := rows.Scan(
			&result.ID, &result.Text, &sentiment, &result.Confidence, &keywordsRaw,
			&result.Explanation, &method, &result.Source, &result.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(keywordsRaw, &result.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
		if result.Keywords == nil {
			result.Keywords = []string{}
		}
		result.Sentiment = domain.Sentiment(sentiment)
		result.Method = domain.Method(method)
		result.Timestamp = result.Timestamp.UTC()
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrJobNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
