package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kirillkom/sentiment-analyzer/internal/config"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/export"
	"github.com/kirillkom/sentiment-analyzer/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg       config.Config
	analyzer  ports.SentimentAnalyzer
	submitter ports.JobSubmitter
	jobs      ports.JobReader
	exports   *export.Registry
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	analyzer ports.SentimentAnalyzer,
	submitter ports.JobSubmitter,
	jobs ports.JobReader,
	exports *export.Registry,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	if exports == nil {
		exports = export.Default()
	}
	return &Router{
		cfg:       cfg,
		analyzer:  analyzer,
		submitter: submitter,
		jobs:      jobs,
		exports:   exports,
		metrics:   httpMetrics,
	}
}

// Handler assembles routes and the middleware chain. It panics if the
// embedded API contract cannot be loaded.
func (rt *Router) Handler() http.Handler {
	contract, err := loadContract()
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPI)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("POST /v1/sentiment/analyze", rt.analyzeText)
	mux.HandleFunc("POST /v1/sentiment/batch", rt.analyzeBatch)
	mux.HandleFunc("POST /v1/jobs", rt.submitJob)
	mux.HandleFunc("GET /v1/jobs/{job_id}", rt.getJob)
	mux.HandleFunc("GET /v1/jobs/{job_id}/results", rt.listJobResults)
	mux.HandleFunc("GET /v1/jobs/{job_id}/export", rt.exportJobResults)

	var handler http.Handler = mux
	handler = contractValidationMiddleware(handler, contract)
	handler = bodyLimitMiddleware(handler, rt.cfg.APIMaxUploadBytes)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIQueueTimeout, rt.rejected)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.rejected)
	handler = authMiddleware(handler, rt.cfg.APIKey, rt.rejected)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) rejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(OpenAPIContract())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeDomainError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"operation", operation,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}
