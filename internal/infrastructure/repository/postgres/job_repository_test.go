package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

var fixedNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*JobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	repo := NewJobRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock, func() { _ = db.Close() }
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(schemaLockID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_jobs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansJob(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "status", "item_count", "error_message", "created_at", "updated_at",
	}).AddRow("job-1", "reviews.csv", "text/csv", "job-1_reviews.csv", "completed", 12, "", fixedNow, fixedNow)
	mock.ExpectQuery("FROM analysis_jobs").WithArgs("job-1").WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if job.Status != domain.JobStatusCompleted || job.ItemCount != 12 || job.Filename != "reviews.csv" {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE analysis_jobs").
		WithArgs("missing", string(domain.JobStatusProcessing), "", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.JobStatusProcessing, "")
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultsWritesInTransaction(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	results := []domain.SentimentResult{
		{ID: "r1", Text: "great", Sentiment: domain.SentimentPositive, Confidence: 0.95, Keywords: []string{"great"}, Explanation: "e1", Method: domain.MethodRemote, Source: "a.txt", Timestamp: fixedNow},
		{ID: "r2", Text: "meh", Sentiment: domain.SentimentNeutral, Confidence: 0.5, Keywords: []string{}, Explanation: "e2", Method: domain.MethodFallback, Source: "a.txt", Timestamp: fixedNow},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sentiment_results").WithArgs("job-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO sentiment_results").
		WithArgs("r1", "job-1", 0, "great", "positive", 0.95, []byte(`["great"]`), "e1", "remote", "a.txt", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO sentiment_results").
		WithArgs("r2", "job-1", 1, "meh", "neutral", 0.5, []byte(`[]`), "e2", "fallback", "a.txt", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE analysis_jobs").WithArgs("job-1", 2, fixedNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveResults(context.Background(), "job-1", results); err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultsRollsBackOnInsertError(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sentiment_results").WithArgs("job-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO sentiment_results").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.SaveResults(context.Background(), "job-1", []domain.SentimentResult{{ID: "r1", Keywords: []string{}}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListResultsOrdersByPosition(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "text", "sentiment", "confidence", "keywords", "explanation", "method", "source", "analyzed_at",
	}).
		AddRow("r1", "great", "positive", 0.95, []byte(`["great"]`), "e1", "heuristic", "a.txt", fixedNow).
		AddRow("r2", "meh", "neutral", 0.5, []byte(`null`), "e2", "fallback", "", fixedNow)
	mock.ExpectQuery("FROM sentiment_results").WithArgs("job-1").WillReturnRows(rows)

	results, err := repo.ListResults(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("ListResults() error = %v", err)
	}
	if len(results) != 2 || results[0].Keywords[0] != "great" || results[1].Method != domain.MethodFallback {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[1].Keywords == nil {
		t.Fatalf("expected non-nil keywords")
	}
}
