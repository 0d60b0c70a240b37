package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/kvview/internal/ui/styles"
)

// ConfirmResult holds the answer to a yes/no question.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

// ConfirmOption adjusts a Confirm prompt.
type ConfirmOption func(*confirmModel)

// WithDetail shows detail in muted text under the question, e.g. the keys a
// delete is about to remove.
func WithDetail(detail string) ConfirmOption {
	return func(m *confirmModel) { m.detail = detail }
}

type confirmModel struct {
	question string
	detail   string

	confirmed bool
	cancelled bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		return m.answer(true)
	case "n", "N":
		return m.answer(false)
	case "enter":
		return m.answer(false)
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.confirmed = yes
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	view := m.question + " " + styles.MutedStyle.Render("[y/N]") + " "
	if m.detail != "" {
		view += "\n" + styles.MutedStyle.Render(m.detail)
	}
	return tea.NewView(view)
}

// Confirm asks a yes/no question on stderr.
func Confirm(question string, opts ...ConfirmOption) (ConfirmResult, error) {
	model := confirmModel{question: question}
	for _, opt := range opts {
		opt(&model)
	}
	final, err := newProgram(model).Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m := final.(confirmModel)
	return ConfirmResult{Confirmed: m.confirmed, Cancelled: m.cancelled}, nil
}
