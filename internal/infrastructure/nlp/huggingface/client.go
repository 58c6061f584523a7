package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultModel   = "cardiffnlp/twitter-roberta-base-sentiment-latest"

	previewLength = 100
)

// Client calls the hosted inference API for a text-classification model.
type Client struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
	HTTPClient         *http.Client
}

func New(baseURL, model, token string, options Options) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		timeout := options.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		token:      token,
		httpClient: httpClient,
		executor:   options.ResilienceExecutor,
	}
}

func (c *Client) Model() string {
	return c.model
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Predict returns the model's label scores for text. Every failure is
// reported as domain.ErrRemoteUnavailable.
func (c *Client) Predict(ctx context.Context, text string) ([]domain.LabelScore, error) {
	slog.Debug("remote_predict_request", "model", c.model, "text_preview", preview(text))

	request := inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	}
	call := func(ctx context.Context) ([]domain.LabelScore, error) {
		var raw json.RawMessage
		if err := c.postJSON(ctx, "/models/"+c.model, request, &raw, "predict"); err != nil {
			return nil, err
		}
		slog.Debug("remote_predict_response", "model", c.model, "body", preview(string(raw)))
		return decodeCandidates(raw)
	}

	candidates, err := resilience.Call(ctx, c.executor, "huggingface.predict", call, classifyInferenceError)
	if err != nil {
		slog.Debug("remote_predict_failed", "model", c.model, "error", err)
		return nil, domain.WrapError(domain.ErrRemoteUnavailable, "huggingface predict", wrapTemporaryIfNeeded("huggingface predict", err))
	}
	return candidates, nil
}

// decodeCandidates accepts both the nested [[{label,score}]] shape returned
// for a single input and a flat [{label,score}] list.
func decodeCandidates(raw json.RawMessage) ([]domain.LabelScore, error) {
	var nested [][]domain.LabelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, errors.New("empty prediction")
		}
		return nested[0], nil
	}

	var flat []domain.LabelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if len(flat) == 0 {
		return nil, errors.New("empty prediction")
	}
	return flat, nil
}

func preview(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= previewLength {
		return string(runes)
	}
	return string(runes[:previewLength]) + "..."
}
