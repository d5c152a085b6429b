package review

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/ccw/internal/cache"
	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/redact"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "qwen3-coder:30b"

// Options are the immutable per-process settings of an Engine.
type Options struct {
	Model string
	// KeepAlive is how long, in seconds, the server keeps the model loaded.
	KeepAlive int
	// SkipLarger is the context window ceiling. Zero admits everything.
	SkipLarger    int
	RedactSecrets bool
	// RedactPaths withholds bodies whose source matches one of these globs.
	RedactPaths []string
}

// ReplyCache stores replies keyed by request content.
type ReplyCache interface {
	Get(key string) (string, bool)
	Put(key, model, reply string) error
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, res Result) error
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithCache enables reply caching.
func WithCache(c ReplyCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithRecorder records every executed request.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger for non-fatal problems such as cache writes.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine runs requests through the pipeline: assemble, estimate, admit,
// dispatch and format. It holds no per-request state and may be shared.
type Engine struct {
	opts     Options
	client   providers.Chatter
	cache    ReplyCache
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Engine that dispatches through client.
func New(opts Options, client providers.Chatter, options ...Option) *Engine {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	e := &Engine{
		opts:   opts,
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Model returns the model requests are sent to.
func (e *Engine) Model() string { return e.opts.Model }

// Prepare scrubs the input when redaction is enabled, assembles the
// messages for def and estimates the context window.
func (e *Engine) Prepare(def modes.Definition, in Input) (*Request, error) {
	redactions := 0
	if e.opts.RedactSecrets {
		var n int
		in.Body, n = redact.Body(in.Body, in.Source, e.opts.RedactPaths)
		redactions += n
		in.Criteria, n = redact.Secrets(in.Criteria)
		redactions += n
		in.Question, n = redact.Secrets(in.Question)
		redactions += n
	}

	msgs, err := Assemble(def, in)
	if err != nil {
		return nil, err
	}
	return &Request{
		Mode:          def,
		Source:        in.Source,
		Messages:      msgs,
		ContextWindow: EstimateContext(msgs),
		Redactions:    redactions,
	}, nil
}

// Execute admits and dispatches req. Skipped and exhausted requests are not
// errors; their status says what happened. Only fatal protocol failures are
// returned as errors, together with a failed result.
func (e *Engine) Execute(ctx context.Context, req *Request) (Result, error) {
	start := e.now()
	res := Result{
		ID:            uuid.NewString(),
		Mode:          req.Mode.ID,
		Source:        req.Source,
		Model:         e.opts.Model,
		ContextWindow: req.ContextWindow,
		Redactions:    req.Redactions,
		StartedAt:     start,
		DoneLabel:     req.Mode.DoneLabel,
	}

	if !Admit(req.ContextWindow, e.opts.SkipLarger) {
		res.Status = StatusSkipped
		e.finish(ctx, &res, start)
		return res, nil
	}

	var key string
	if e.cache != nil {
		key = e.cacheKey(req)
		if reply, ok := e.cache.Get(key); ok {
			res.Status = StatusSucceeded
			res.Cached = true
			res.Text = FormatReply(reply, e.opts.Model)
			e.finish(ctx, &res, start)
			return res, nil
		}
	}

	chatReq := providers.NewChatRequest(e.opts.Model, req.Messages, req.ContextWindow, e.opts.KeepAlive)
	chat, err := e.client.Chat(ctx, chatReq)
	res.Attempts = chat.Attempts
	switch {
	case err != nil:
		res.Status = StatusFailed
		res.Error = err.Error()
		e.finish(ctx, &res, start)
		return res, err
	case chat.Exhausted:
		res.Status = StatusExhausted
		e.finish(ctx, &res, start)
		return res, nil
	}

	if e.cache != nil {
		if err := e.cache.Put(key, e.opts.Model, chat.Content); err != nil {
			e.logger.Warn("cache write failed", "error", err)
		}
	}
	res.Status = StatusSucceeded
	res.Text = FormatReply(chat.Content, e.opts.Model)
	e.finish(ctx, &res, start)
	return res, nil
}

// Run prepares and executes a single request.
func (e *Engine) Run(ctx context.Context, def modes.Definition, in Input) (Result, error) {
	req, err := e.Prepare(def, in)
	if err != nil {
		return Result{}, err
	}
	return e.Execute(ctx, req)
}

func (e *Engine) finish(ctx context.Context, res *Result, start time.Time) {
	res.Elapsed = e.now().Sub(start)
	res.ElapsedMs = res.Elapsed.Milliseconds()
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, *res); err != nil {
		e.logger.Warn("recording run failed", "id", res.ID, "error", err)
	}
}

func (e *Engine) cacheKey(req *Request) string {
	parts := make([]string, 0, 2+2*len(req.Messages))
	parts = append(parts, e.opts.Model, strconv.Itoa(req.ContextWindow))
	for _, m := range req.Messages {
		parts = append(parts, m.Role, m.Content)
	}
	return cache.Key(parts...)
}
