package output

import (
	"fmt"

	"github.com/dshills/ccw/internal/review"
)

// MarkdownWriter writes one section per request.
type MarkdownWriter struct {
	ew     *errWriter
	header Header
}

func (m *MarkdownWriter) Start(h Header) error {
	m.header = h
	return nil
}

func (m *MarkdownWriter) Result(res review.Result) error {
	title := m.header.Source
	if title == "" {
		title = res.Source
	}
	if title == "" {
		title = res.Mode
	}
	if m.header.Total > 0 {
		title = fmt.Sprintf("%s (%d of %d)", title, m.header.Index, m.header.Total)
	}
	m.ew.printf("## %s\n\n", title)
	m.ew.printf("- Mode: `%s`\n- Model: `%s`\n- Context window: %d\n- Status: %s\n\n",
		res.Mode, res.Model, res.ContextWindow, res.Status)

	switch res.Status {
	case review.StatusSkipped:
		m.ew.println("> Context too large. Skipped.")
	case review.StatusFailed:
		m.ew.printf("> Request failed: %s\n", res.Error)
	case review.StatusExhausted:
		m.ew.println("> No reply: every attempt failed.")
	default:
		m.ew.println(res.Text)
		m.ew.printf("\n_%s_\n", fmtDone(res))
	}
	m.ew.println("")
	return m.ew.err
}

func (m *MarkdownWriter) Close() error { return m.ew.err }
