package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/resilience"
)

// classifyNATSError retries publishes that may succeed once the client
// reconnects. A closed connection never reconnects, so it is recorded without
// a retry. Malformed publishes say nothing about broker health and are not
// recorded.
func classifyNATSError(err error) resilience.ErrorClassification {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		resilience.IsCircuitOpen(err):
		return resilience.ErrorClassification{}
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrDisconnected),
		errors.Is(err, nats.ErrReconnectBufExceeded):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	case errors.Is(err, nats.ErrConnectionClosed):
		return resilience.ErrorClassification{RecordFailure: true}
	case errors.Is(err, nats.ErrBadSubject),
		errors.Is(err, nats.ErrMaxPayload),
		errors.Is(err, nats.ErrInvalidMsg):
		return resilience.ErrorClassification{}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

// wrapTemporaryIfNeeded marks publish failures the submitter may report as
// retry-later. The job row already exists, so a later publish can pick it up.
func wrapTemporaryIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err).Retryable ||
		resilience.IsCircuitOpen(err) ||
		errors.Is(err, nats.ErrConnectionClosed) {
		return domain.WrapError(domain.ErrTemporary, "publish job event", err)
	}
	return err
}
