package providers

import (
	"context"
	"errors"
	"log/slog"
)

// transportError marks a failure where the HTTP exchange did not complete:
// dial errors, timeouts, DNS failures or a body cut short.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "transport: " + e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }

var errExhausted = errors.New("attempts exhausted")

// retryTransport calls fn once per attempt, at most maxAttempts times.
// Only transport errors are retried, immediately and without backoff; any
// other error ends the loop. It returns the number of calls made and
// errExhausted when every attempt failed at the transport level.
func retryTransport(ctx context.Context, maxAttempts int, logger *slog.Logger, fn func(attempt int) error) (int, error) {
	calls := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		calls++
		err := fn(attempt)
		if err == nil {
			return calls, nil
		}

		var te *transportError
		if !errors.As(err, &te) {
			return calls, err
		}
		logger.Error("request failed", "attempt", attempt, "max_attempts", maxAttempts, "error", te.err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return calls, ctxErr
		}
	}
	return calls, errExhausted
}
