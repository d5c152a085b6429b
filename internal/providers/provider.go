package providers

import (
	"context"
	"errors"
	"fmt"
)

// Roles used in chat messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of a chat request. Messages are treated as values and
// never modified after creation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions carries the model runtime options sent with each request.
type ChatOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
}

// ChatRequest is the envelope posted to the chat endpoint.
type ChatRequest struct {
	Model     string      `json:"model"`
	Messages  []Message   `json:"messages"`
	Options   ChatOptions `json:"options"`
	KeepAlive int         `json:"keep_alive"`
	Stream    bool        `json:"stream"`
}

// NewChatRequest builds a deterministic, non-streaming request envelope.
func NewChatRequest(model string, messages []Message, numCtx, keepAlive int) ChatRequest {
	return ChatRequest{
		Model:     model,
		Messages:  messages,
		Options:   ChatOptions{NumCtx: numCtx, Temperature: 0},
		KeepAlive: keepAlive,
		Stream:    false,
	}
}

// ChatResult is the outcome of one logical chat request.
type ChatResult struct {
	Content string
	// Attempts is the number of network calls issued.
	Attempts int
	// Exhausted is set when every attempt failed at the transport level.
	// Content is empty in that case.
	Exhausted bool
}

// Chatter sends chat requests to an inference server.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResult, error)
}

var (
	// ErrHostMissing is returned when no inference server address is configured.
	ErrHostMissing = errors.New("inference server address is not set (OLLAMA_HOST)")
	// ErrRequestProblem marks a completed exchange with an unexpected status.
	ErrRequestProblem = errors.New("request problem")
	// ErrMalformedResponse marks a success status whose body does not match
	// the reply schema.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned when the server answers with a status other than
// 200 or 201.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request problem: status %d", e.StatusCode)
	}
	return fmt.Sprintf("request problem: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrRequestProblem }

// IsRequestProblem reports whether err is a fatal protocol failure: an
// unexpected status or a malformed success body.
func IsRequestProblem(err error) bool {
	return errors.Is(err, ErrRequestProblem) || errors.Is(err, ErrMalformedResponse)
}
