package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/ccw/internal/review"
)

// TextWriter prints the reply as plain text between styled status lines.
// Styling is dropped automatically when w is not a terminal.
type TextWriter struct {
	ew     *errWriter
	banner lipgloss.Style
	file   lipgloss.Style
	warn   lipgloss.Style
	done   lipgloss.Style
	failed lipgloss.Style
}

// NewText creates a text writer for w.
func NewText(w io.Writer) *TextWriter {
	r := lipgloss.NewRenderer(w)
	return &TextWriter{
		ew:     &errWriter{w: w},
		banner: r.NewStyle().Faint(true).TabWidth(lipgloss.NoTabConversion),
		file:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		done:   r.NewStyle().Foreground(lipgloss.Color("10")),
		failed: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (t *TextWriter) Start(h Header) error {
	if h.Total > 0 {
		t.ew.printf("%s\n", t.file.Render(fmtFileLine(h)))
	}
	t.ew.printf("%s\n\n\n", t.banner.Render(fmtBanner(h)))
	return t.ew.err
}

func (t *TextWriter) Result(res review.Result) error {
	switch res.Status {
	case review.StatusSkipped:
		t.ew.println(t.warn.Render("Context too large. Skipping..."))
		return t.ew.err
	case review.StatusFailed:
		t.ew.println(t.failed.Render("Request failed: " + res.Error))
		return t.ew.err
	case review.StatusExhausted:
		t.ew.println(t.warn.Render("No reply: every attempt failed."))
	default:
		t.ew.println(res.Text)
	}
	t.ew.printf("\n\n%s\n\n", t.done.Render(fmtDone(res)))
	return t.ew.err
}

func (t *TextWriter) Close() error { return t.ew.err }
