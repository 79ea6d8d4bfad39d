package leaseledger

import (
	"context"
	"log/slog"
	"strings"
)

// transientSignatures are the connectivity-failure message fragments treated
// as retryable. Anything else propagates on the first failure.
var transientSignatures = []string{
	"connection closed",
	"connection refused",
	"connection timeout",
	"server closed the connection",
	"SSL connection has been closed",
}

// isTransient reports whether the error message matches one of the known
// transient-connectivity signatures.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// withRetry runs fn up to attempts times. Only transient-signature failures
// are retried; other errors propagate immediately. Each failed transient
// attempt is logged with its 1-indexed attempt number. After the final
// transient failure the terminal error is ErrRetriesExhausted, deliberately
// distinct from the last underlying cause. There is no delay between
// attempts; fn must open fresh storage resources on every call.
func withRetry(ctx context.Context, attempts int, op string, fn func(context.Context) error) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		slog.Warn("transient storage failure",
			"op", op,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err)
	}
	return ErrRetriesExhausted
}
