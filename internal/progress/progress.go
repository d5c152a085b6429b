package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type stopMsg struct{}

type model struct {
	spinner spinner.Model
	label   string
	started time.Time
	done    bool
}

func newModel(label string, started time.Time) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return model{spinner: sp, label: label, started: started}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	secs := int(time.Since(m.started) / time.Second)
	return fmt.Sprintf("%s %s (%ds)", m.spinner.View(), m.label, secs)
}

// Start shows a spinner with label on out until the returned function is
// called. Nothing is drawn when out is not a terminal. The stop function
// blocks until the spinner line has been cleared and is safe to call more
// than once.
func Start(out *os.File, label string) (stop func()) {
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return func() {}
	}

	p := tea.NewProgram(newModel(label, time.Now()),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		p.Run() //nolint:errcheck
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.Send(stopMsg{})
			<-finished
		})
	}
}
