package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "huggingface status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("huggingface %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("huggingface %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// classifyInferenceError decides how the breaker and retry loop treat a
// failed inference call. An open circuit fails fast without another attempt.
// Credential errors trip the breaker since every later call fails the same way.
// A 503 while the model is loading is retried but not held against the host.
func classifyInferenceError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err):
		return resilience.ErrorClassification{}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	// Undecodable model output.
	return resilience.ErrorClassification{RecordFailure: true}
}

func classifyStatus(statusErr *HTTPStatusError) resilience.ErrorClassification {
	switch code := statusErr.StatusCode; {
	case code == http.StatusUnauthorized, code == http.StatusForbidden, code == http.StatusNotFound:
		return resilience.ErrorClassification{RecordFailure: true}
	case code == http.StatusServiceUnavailable && statusErr.ModelLoading():
		return resilience.ErrorClassification{Retryable: true}
	case isRetryableHTTPStatus(code):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		// Rejected input, e.g. 400 or 422.
		return resilience.ErrorClassification{}
	}
}

// ModelLoading reports whether the inference API answered while the model was
// still being loaded onto a worker.
func (e *HTTPStatusError) ModelLoading() bool {
	return e != nil && strings.Contains(strings.ToLower(e.Body), "loading")
}

func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyInferenceError(err).Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
