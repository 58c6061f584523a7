package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
	"github.com/kirillkom/sentiment-analyzer/internal/core/sentiment"
)

const predictionCachePrefix = "sentiment:prediction:"

type AnalyzeOptions struct {
	ModelName     string
	RemoteTimeout time.Duration
	CacheTTL      time.Duration
	BatchWorkers  int
	BatchPacing   time.Duration
}

// AnalyzeUseCase tries the remote model first and falls back to the local
// heuristic scorer on any failure. Without a model it runs the heuristic path only.
type AnalyzeUseCase struct {
	scorer   *sentiment.Scorer
	model    ports.SentimentModel
	cache    ports.PredictionCache
	observer ports.AnalysisObserver
	opts     AnalyzeOptions

	now   func() time.Time
	newID func() string
}

func NewAnalyzeUseCase(
	scorer *sentiment.Scorer,
	model ports.SentimentModel,
	cache ports.PredictionCache,
	observer ports.AnalysisObserver,
	opts AnalyzeOptions,
) *AnalyzeUseCase {
	if scorer == nil {
		scorer = sentiment.NewScorer(nil)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &AnalyzeUseCase{
		scorer:   scorer,
		model:    model,
		cache:    cache,
		observer: observer,
		opts:     opts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, text, source string) domain.SentimentResult {
	return uc.stamp(text, source, uc.assess(ctx, text))
}

// AnalyzeBatch returns one result per item in input order. A failure while
// analyzing one item is absorbed into a fallback result for that item only.
// The returned error is non-nil only when ctx is done; partial results are dropped.
func (uc *AnalyzeUseCase) AnalyzeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.SentimentResult, error) {
	uc.observer.ObserveBatch(len(items))
	results := make([]domain.SentimentResult, len(items))

	if uc.opts.BatchWorkers <= 1 {
		for i, item := range items {
			if i > 0 {
				if err := uc.pace(ctx); err != nil {
					return nil, err
				}
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = uc.analyzeItem(ctx, item)
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.opts.BatchWorkers)
	for i, item := range items {
		group.Go(func() error {
			if i > 0 {
				if err := uc.pace(groupCtx); err != nil {
					return err
				}
			}
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = uc.analyzeItem(groupCtx, item)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (uc *AnalyzeUseCase) analyzeItem(ctx context.Context, item domain.BatchItem) (result domain.SentimentResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("batch_item_recovered",
				"panic", fmt.Sprint(recovered),
				"source", item.Source,
				"text_length", len(item.Text),
			)
			uc.observer.ObserveFallback("item_failure")
			result = uc.recoverItem(item)
		}
	}()
	return uc.Analyze(ctx, item.Text, item.Source)
}

// recoverItem rescores a failed item with the fallback scorer. If that panics
// too the item becomes a neutral result so the batch still completes.
func (uc *AnalyzeUseCase) recoverItem(item domain.BatchItem) (result domain.SentimentResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("batch_item_fallback_failed",
				"panic", fmt.Sprint(recovered),
				"source", item.Source,
			)
			result = uc.stamp(item.Text, item.Source, lastResort())
		}
	}()
	return uc.stamp(item.Text, item.Source, uc.scorer.Fallback(item.Text))
}

func lastResort() sentiment.Assessment {
	const confidence = 0.5
	return sentiment.Assessment{
		Sentiment:   domain.SentimentNeutral,
		Confidence:  confidence,
		Keywords:    []string{},
		Explanation: sentiment.ExplainFallback(domain.SentimentNeutral, confidence),
		Method:      domain.MethodFallback,
	}
}

func (uc *AnalyzeUseCase) assess(ctx context.Context, text string) sentiment.Assessment {
	var assessment sentiment.Assessment
	if uc.model == nil {
		assessment = uc.scorer.Heuristic(text)
	} else {
		result, err := uc.remote(ctx, text)
		if err != nil {
			reason := fallbackReason(err)
			slog.Warn("remote_fallback", "reason", reason, "error", err)
			uc.observer.ObserveFallback(reason)
			result = uc.scorer.Fallback(text)
		}
		assessment = result
	}

	uc.observer.ObserveAnalysis(assessment.Method, assessment.Sentiment)
	return assessment
}

func (uc *AnalyzeUseCase) remote(ctx context.Context, text string) (assessment sentiment.Assessment, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = domain.WrapError(domain.ErrRemoteUnavailable, "remote analyze", fmt.Errorf("panic: %v", recovered))
		}
	}()

	candidates, err := uc.predict(ctx, text)
	if err != nil {
		return sentiment.Assessment{}, err
	}
	return sentiment.FromCandidates(text, candidates)
}

func (uc *AnalyzeUseCase) predict(ctx context.Context, text string) ([]domain.LabelScore, error) {
	key := uc.cacheKey(text)
	if uc.cache != nil {
		candidates, ok, err := uc.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("prediction_cache_get_failed", "error", err)
		case ok:
			return candidates, nil
		}
	}

	callCtx := ctx
	if uc.opts.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.opts.RemoteTimeout)
		defer cancel()
	}

	start := time.Now()
	candidates, err := uc.model.Predict(callCtx, text)
	uc.observer.ObserveRemoteCall(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && len(candidates) > 0 {
		if err := uc.cache.Set(ctx, key, candidates, uc.opts.CacheTTL); err != nil {
			slog.Warn("prediction_cache_set_failed", "error", err)
		}
	}
	return candidates, nil
}

func (uc *AnalyzeUseCase) stamp(text, source string, assessment sentiment.Assessment) domain.SentimentResult {
	keywords := assessment.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return domain.SentimentResult{
		ID:          uc.newID(),
		Text:        strings.TrimSpace(text),
		Sentiment:   assessment.Sentiment,
		Confidence:  assessment.Confidence,
		Keywords:    keywords,
		Explanation: assessment.Explanation,
		Timestamp:   uc.now().UTC(),
		Source:      source,
		Method:      assessment.Method,
	}
}

func (uc *AnalyzeUseCase) pace(ctx context.Context) error {
	if uc.opts.BatchPacing <= 0 {
		return nil
	}
	timer := time.NewTimer(uc.opts.BatchPacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (uc *AnalyzeUseCase) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(uc.opts.ModelName + "\x00" + text))
	return predictionCachePrefix + hex.EncodeToString(sum[:])
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case domain.IsKind(err, domain.ErrRemoteUnavailable):
		return "remote_unavailable"
	default:
		return "error"
	}
}

type noopObserver struct{}

func (noopObserver) ObserveAnalysis(domain.Method, domain.Sentiment) {}
func (noopObserver) ObserveFallback(string) {}
func (noopObserver) ObserveRemoteCall(time.Duration, error) {}
func (noopObserver) ObserveBatch(int) {}
