package output

import (
	"fmt"
	"io"

	"github.com/dshills/ccw/internal/review"
)

// Header describes a request about to be dispatched.
type Header struct {
	// Index and Total number the request within a batch, starting at 1.
	// Total is zero for a single request.
	Index  int
	Total  int
	Source string

	ContextWindow  int
	KeepAlive      int
	TimeoutSeconds int
}

// Writer renders run progress and results in one format.
type Writer interface {
	// Start announces a request before it is dispatched.
	Start(h Header) error
	// Result reports the outcome of the request last started.
	Result(res review.Result) error
	// Close flushes anything buffered.
	Close() error
}

// New returns a writer for format that writes to w.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case "", "text":
		return NewText(w), nil
	case "json":
		return &JSONWriter{w: w}, nil
	case "markdown":
		return &MarkdownWriter{ew: &errWriter{w: w}}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
