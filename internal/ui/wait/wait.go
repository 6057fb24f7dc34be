// Package wait shows a spinner while the trigger waits for Jira to
// process a label change.
package wait

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/costa-amore/JiraUtil-sub000/internal/theme"
)

type doneMsg struct{}

// model counts down to a deadline with a spinner.
type model struct {
	spinner  spinner.Model
	label    string
	deadline time.Time
	now      func() time.Time
}

func newModel(label string, d time.Duration, now func() time.Time) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return model{
		spinner:  sp,
		label:    label,
		deadline: now().Add(d),
		now:      now,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(time.Until(m.deadline), func(time.Time) tea.Msg { return doneMsg{} }),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	return fmt.Sprintf("%s %s %s\n",
		m.spinner.View(),
		m.label,
		theme.MutedStyle.Render(fmt.Sprintf("(%s left)", m.remaining().Round(time.Second))),
	)
}

func (m model) remaining() time.Duration {
	left := m.deadline.Sub(m.now())
	if left < 0 {
		return 0
	}
	return left
}

// SpinnerWaiter waits with an animated spinner on out. It never returns
// before the full duration has passed, even if the terminal program stops
// early.
type SpinnerWaiter struct {
	Out   io.Writer
	Label string
	// Context stops the spinner when done. The wait itself still runs to
	// the end.
	Context context.Context
	Logger  *slog.Logger
}

// Wait implements fixture.Waiter.
func (w SpinnerWaiter) Wait(d time.Duration) {
	if d <= 0 {
		return
	}

	label := w.Label
	if label == "" {
		label = "Waiting for Jira to settle"
	}

	opts := []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(w.Out)}
	if w.Context != nil {
		opts = append(opts, tea.WithContext(w.Context))
	}

	m := newModel(label, d, time.Now)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && w.Logger != nil {
		w.Logger.Debug("settle spinner stopped early", "error", err)
	}

	if left := m.remaining(); left > 0 {
		time.Sleep(left)
	}
}
