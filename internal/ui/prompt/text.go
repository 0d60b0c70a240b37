package prompt

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/kvview/internal/ui/styles"
)

// TextInputResult holds the result of a text input prompt.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

// Validator rejects input by returning a message shown under the field.
type Validator func(string) error

type textInputModel struct {
	textInput textinput.Model
	prompt    string
	validate  Validator
	invalid   string
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if m.validate != nil {
				if err := m.validate(m.textInput.Value()); err != nil {
					m.invalid = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.invalid = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	view := fmt.Sprintf("%s\n%s", m.prompt, m.textInput.View())
	if m.invalid != "" {
		view += "\n" + styles.ErrorStyle.Render(m.invalid)
	}
	return tea.NewView(view)
}

// TextInput shows a text input prompt prefilled with value and returns the
// user's input. Enter is refused while validate reports an error.
func TextInput(prompt, value, placeholder string, validate Validator) (TextInputResult, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.Focus()
	ti.CharLimit = 4096
	ti.SetWidth(60)

	model := textInputModel{
		textInput: ti,
		prompt:    prompt,
		validate:  validate,
	}
	finalModel, err := newProgram(model).Run()
	if err != nil {
		return TextInputResult{}, err
	}
	m := finalModel.(textInputModel)
	return TextInputResult{
		Value:     m.textInput.Value(),
		Cancelled: m.cancelled,
	}, nil
}
