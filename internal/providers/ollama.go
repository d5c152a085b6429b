package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	chatPath = "/api/chat"
	tagsPath = "/api/tags"

	// maxErrorBody bounds how much of a failed response is kept for messages.
	maxErrorBody = 512
)

// Options configures an Ollama client.
type Options struct {
	// Host is the server base address, e.g. http://localhost:11434.
	Host string
	// Timeout bounds connection setup and the full exchange of each attempt.
	// Zero disables the timeout.
	Timeout time.Duration
	// MaxAttempts is the number of network calls allowed per logical request.
	MaxAttempts int
	// Logger receives one line per failed attempt. Defaults to stderr.
	Logger *slog.Logger
}

// Ollama talks to an Ollama server's native chat API.
type Ollama struct {
	baseURL     string
	maxAttempts int
	client      *http.Client
	logger      *slog.Logger
}

// NewOllama creates a client for the server at opts.Host.
func NewOllama(opts Options) (*Ollama, error) {
	baseURL, err := NormalizeHost(opts.Host)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{Timeout: opts.Timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.Timeout,
		ResponseHeaderTimeout: opts.Timeout,
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return &Ollama{
		baseURL:     baseURL,
		maxAttempts: opts.MaxAttempts,
		client:      &http.Client{Timeout: opts.Timeout, Transport: transport},
		logger:      logger,
	}, nil
}

// NormalizeHost turns an OLLAMA_HOST style address into a base URL.
// A missing scheme defaults to http and trailing slashes and /api are dropped.
func NormalizeHost(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", ErrHostMissing
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	host = strings.TrimRight(host, "/")
	host = strings.TrimSuffix(host, "/api")
	return host, nil
}

// BaseURL returns the normalized server address.
func (o *Ollama) BaseURL() string { return o.baseURL }

// Chat sends req to the chat endpoint, retrying transport failures up to the
// configured attempt count. When every attempt fails at the transport level
// the result is marked Exhausted and no error is returned. Unexpected
// statuses and malformed success bodies are returned as errors at once.
func (o *Ollama) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	req.Stream = false
	payload, err := json.Marshal(req)
	if err != nil {
		return ChatResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	var content string
	calls, err := retryTransport(ctx, o.maxAttempts, o.logger, func(attempt int) error {
		reply, err := o.post(ctx, payload)
		if err != nil {
			return err
		}
		content = reply
		return nil
	})

	switch {
	case err == nil:
		return ChatResult{Content: content, Attempts: calls}, nil
	case errors.Is(err, errExhausted):
		return ChatResult{Attempts: calls, Exhausted: true}, nil
	default:
		return ChatResult{Attempts: calls}, err
	}
}

func (o *Ollama) post(ctx context.Context, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+chatPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return "", &transportError{err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return "", &StatusError{StatusCode: httpResp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &transportError{err: fmt.Errorf("reading response: %w", err)}
	}
	return parseChatResponse(respBody)
}

type chatResponse struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

func parseChatResponse(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Message == nil || resp.Message.Content == nil {
		return "", fmt.Errorf("%w: missing message.content", ErrMalformedResponse)
	}
	return *resp.Message.Content, nil
}

// Model describes a model installed on the server.
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// Models lists the models installed on the server. It makes a single call.
func (o *Ollama) Models(ctx context.Context) ([]Model, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+tagsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var tags tagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return tags.Models, nil
}

// Ping checks that the server is reachable.
func (o *Ollama) Ping(ctx context.Context) error {
	_, err := o.Models(ctx)
	return err
}
