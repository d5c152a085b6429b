package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
)

// Status is the outcome of one pipeline run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	// StatusSkipped means admission control rejected the request before any
	// network call.
	StatusSkipped Status = "skipped"
	// StatusExhausted means every attempt failed at the transport level.
	StatusExhausted Status = "exhausted"
	// StatusFailed means the server answered with an unexpected status or a
	// malformed body.
	StatusFailed Status = "failed"
)

// Input holds the caller-supplied texts for one request. Empty strings are
// treated as absent.
type Input struct {
	Body     string
	Question string
	Criteria string
	// Source names where Body came from, e.g. a file path or "git diff --staged".
	Source string
}

// Request is an assembled, estimated request ready for execution.
type Request struct {
	Mode          modes.Definition
	Source        string
	Messages      []providers.Message
	ContextWindow int
	Redactions    int
}

// Result describes a finished pipeline run.
type Result struct {
	ID            string        `json:"id"`
	Mode          string        `json:"mode"`
	Source        string        `json:"source,omitempty"`
	Model         string        `json:"model"`
	Status        Status        `json:"status"`
	Text          string        `json:"text"`
	ContextWindow int           `json:"contextWindow"`
	Attempts      int           `json:"attempts"`
	Cached        bool          `json:"cached,omitempty"`
	Redactions    int           `json:"redactions,omitempty"`
	Error         string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"startedAt"`
	Elapsed       time.Duration `json:"-"`
	ElapsedMs     int64         `json:"elapsedMs"`
	// DoneLabel is the verb reported with the elapsed time.
	DoneLabel string `json:"-"`
}

// Seconds returns the elapsed time in whole seconds.
func (r Result) Seconds() int64 {
	return int64(r.Elapsed / time.Second)
}

// ErrMissingInput is the class of usage errors raised when a mode's required
// question or criteria is absent.
var ErrMissingInput = errors.New("missing required input")

// UsageError reports a request that cannot be assembled for its mode.
type UsageError struct {
	Mode    string
	Missing string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("mode %s requires a %s", e.Mode, e.Missing)
}

func (e *UsageError) Unwrap() error { return ErrMissingInput }

// IsUsageError reports whether err is caused by missing caller input.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrMissingInput)
}
