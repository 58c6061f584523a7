package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/sentiment-analyzer/internal/config"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
	"github.com/kirillkom/sentiment-analyzer/internal/core/sentiment"
	"github.com/kirillkom/sentiment-analyzer/internal/core/usecase"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/cache/valkey"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/export"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/lexicon"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/nlp/huggingface"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/nlp/vader"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/resilience"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/sentiment-analyzer/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Analyzer  ports.SentimentAnalyzer
	SubmitUC  ports.JobSubmitter
	ProcessUC ports.JobProcessor
	Jobs      ports.JobReader
	Exports   *export.Registry

	closeFn func()
}

// New wires the full job pipeline: postgres, local storage, NATS and the analyzer.
// analysisMetrics may be nil.
func New(ctx context.Context, cfg config.Config, analysisMetrics *metrics.AnalysisMetrics) (*App, error) {
	analyzer, closeAnalyzer, err := NewAnalyzer(ctx, cfg, analysisMetrics)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		closeAnalyzer()
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewJobRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		closeAnalyzer()
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		closeAnalyzer()
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig(), breakerListener(analysisMetrics)...),
		HandlerTimeout:     cfg.JobTimeout,
	})
	if err != nil {
		closeAnalyzer()
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &App{
		Config: cfg,
		Queue:  queue,

		Analyzer:  analyzer,
		SubmitUC:  usecase.NewSubmitJobUseCase(repo, storage, queue),
		ProcessUC: usecase.NewProcessJobUseCase(repo, extractor.NewExtractor(storage), analyzer),
		Jobs:      usecase.NewJobQueryUseCase(repo),
		Exports:   export.Default(),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
			closeAnalyzer()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewAnalyzer builds the analysis use case from the lexicon, the configured
// model provider and the optional prediction cache. The returned func releases
// the cache connection.
func NewAnalyzer(ctx context.Context, cfg config.Config, analysisMetrics *metrics.AnalysisMetrics) (*usecase.AnalyzeUseCase, func(), error) {
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load lexicon: %w", err)
	}

	model, modelName, err := newModel(cfg, analysisMetrics)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	var cache ports.PredictionCache
	if model != nil && cfg.ValkeyAddr != "" {
		valkeyCache, err := valkey.New(ctx, cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("prediction_cache_unavailable", "addr", cfg.ValkeyAddr, "error", err)
		} else {
			cache = valkeyCache
			closeFn = valkeyCache.Close
		}
	}

	var observer ports.AnalysisObserver
	if analysisMetrics != nil {
		observer = analysisMetrics
	}

	slog.Info("analyzer_configured",
		"provider", cfg.NLPProvider,
		"model", modelName,
		"cache", cache != nil,
		"batch_workers", cfg.BatchWorkers,
	)

	analyzer := usecase.NewAnalyzeUseCase(sentiment.NewScorer(lex), model, cache, observer, usecase.AnalyzeOptions{
		ModelName:     modelName,
		RemoteTimeout: cfg.RemoteTimeout,
		CacheTTL:      cfg.CacheTTL,
		BatchWorkers:  cfg.BatchWorkers,
		BatchPacing:   cfg.BatchPacing,
	})
	return analyzer, closeFn, nil
}

func newModel(cfg config.Config, analysisMetrics *metrics.AnalysisMetrics) (ports.SentimentModel, string, error) {
	switch cfg.NLPProvider {
	case config.ProviderHuggingFace:
		if cfg.HFToken == "" {
			slog.Warn("huggingface_token_missing", "model", cfg.HFModel)
		}
		policy := resilience.DefaultConfig()
		policy.RetryMaxAttempts = cfg.RemoteRetryMaxAttempts
		policy.BreakerEnabled = cfg.RemoteBreakerEnabled
		client := huggingface.New(cfg.HFBaseURL, cfg.HFModel, cfg.HFToken, huggingface.Options{
			Timeout:            cfg.RemoteTimeout,
			ResilienceExecutor: resilience.NewExecutor(policy, breakerListener(analysisMetrics)...),
		})
		return client, client.Model(), nil
	case config.ProviderVader:
		model := vader.New()
		return model, model.Model(), nil
	case config.ProviderNone, "":
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported NLP_PROVIDER %q", cfg.NLPProvider)
	}
}

func breakerListener(analysisMetrics *metrics.AnalysisMetrics) []resilience.Option {
	if analysisMetrics == nil {
		return nil
	}
	return []resilience.Option{resilience.WithStateListener(analysisMetrics.ObserveBreakerState)}
}
