// Package progress shows what kvview is waiting for.
//
// A [Spinner] covers a single wrangler call; a [ProgressBar] counts a batch
// of calls running concurrently and keeps a tally of failures. Both draw on
// stderr and only when stderr is a terminal; otherwise every method is a
// no-op so output stays clean when piped or logged.
package progress

import (
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/kvview/internal/ui/styles"
)

// messageUpdate replaces the spinner text.
type messageUpdate string

// Spinner animates next to a message while one operation runs.
type Spinner struct {
	display

	textMu  sync.Mutex
	message string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	updates <-chan tea.Msg
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.updates))
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, waitFor(m.updates)
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + styles.MutedStyle.Render(m.message))
}

// NewSpinner creates a spinner showing message.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.textMu.Lock()
	message := s.message
	s.textMu.Unlock()

	s.start(func(updates <-chan tea.Msg) tea.Model {
		sp := spinner.New()
		sp.Spinner = spinner.Dot
		sp.Style = styles.PrimaryStyle
		return spinnerModel{spinner: sp, message: message, updates: updates}
	})
}

// UpdateMessage changes the text next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.textMu.Lock()
	s.message = message
	s.textMu.Unlock()
	s.send(messageUpdate(message))
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.stop()
}
