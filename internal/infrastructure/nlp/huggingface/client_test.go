package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/resilience"
)

func TestPredictSendsInferenceRequest(t *testing.T) {
	var captured inferenceRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/"+DefaultModel {
			http.NotFound(w, r)
			return
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`[[{"label":"negative","score":0.93},{"label":"neutral","score":0.05},{"label":"positive","score":0.02}]]`))
	}))
	defer server.Close()

	client := New(server.URL, "", "hf_secret", Options{})
	candidates, err := client.Predict(context.Background(), "the update broke everything")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if captured.Inputs != "the update broke everything" || !captured.Options.WaitForModel {
		t.Fatalf("unexpected request payload: %+v", captured)
	}
	if authHeader != "Bearer hf_secret" {
		t.Fatalf("unexpected auth header %q", authHeader)
	}
	if len(candidates) != 3 || candidates[0].Label != "negative" || candidates[0].Score != 0.93 {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestPredictAcceptsFlatResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"LABEL_2","score":0.81}]`))
	}))
	defer server.Close()

	candidates, err := New(server.URL, "custom/model", "", Options{}).Predict(context.Background(), "nice")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].Label != "LABEL_2" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestPredictReportsRemoteUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model unavailable", http.StatusBadGateway)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"Model is loading"}`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[[]]`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			_, err := New(server.URL, "", "", Options{}).Predict(context.Background(), "hello")
			if !domain.IsKind(err, domain.ErrRemoteUnavailable) {
				t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
			}
		})
	}
}

func TestPredictIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(server.URL, "", "", Options{}).Predict(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected 503 to be temporary, got %v", err)
	}
}

func TestPredictRetriesThroughExecutor(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"positive","score":0.7}]]`))
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
	})
	client := New(server.URL, "", "", Options{ResilienceExecutor: executor})
	candidates, err := client.Predict(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if calls.Load() != 2 || candidates[0].Label != "positive" {
		t.Fatalf("expected retry then success, calls=%d candidates=%+v", calls.Load(), candidates)
	}
}

func TestPredictDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 3, RetryInitialBackoff: time.Millisecond})
	_, err := New(server.URL, "", "", Options{ResilienceExecutor: executor}).Predict(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestPreviewTruncatesLongText(t *testing.T) {
	got := preview(strings.Repeat("é", 110))
	if want := strings.Repeat("é", 100) + "..."; got != want {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := preview(" " + strings.Repeat("a", 100) + " "); got != strings.Repeat("a", 100) {
		t.Fatalf("expected text at the limit to stay whole, got %q", got)
	}
}

func TestPredictLogsResponsePreview(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"positive","score":0.91}]]`))
	}))
	defer server.Close()

	if _, err := New(server.URL, "sst2", "", Options{}).Predict(context.Background(), "hello"); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "remote_predict_response") || !strings.Contains(out, `positive`) {
		t.Fatalf("expected response body in debug log, got %q", out)
	}
}
