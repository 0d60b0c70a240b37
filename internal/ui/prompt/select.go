package prompt

import (
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/kvview/internal/ui/styles"
)

// maxSelectHeight caps the list so long query lists scroll.
const maxSelectHeight = 20

// Option is one choice of a Select prompt. Description is shown in muted
// text under the title and takes part in filtering.
type Option struct {
	Title       string
	Description string
}

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Option    Option
	Index     int
	Cancelled bool
}

type optionItem struct {
	Option
	index int
}

func (i optionItem) Title() string       { return i.Option.Title }
func (i optionItem) Description() string { return i.Option.Description }
func (i optionItem) FilterValue() string { return i.Option.Title + " " + i.Option.Description }

type selectModel struct {
	list      list.Model
	done      bool
	cancelled bool
	selected  int
}

func newSelectModel(title string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	described := false
	for i, opt := range options {
		items[i] = optionItem{Option: opt, index: i}
		described = described || opt.Description != ""
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = described
	if !described {
		delegate.SetSpacing(0)
	}
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	delegate.Styles.SelectedDesc = styles.MutedStyle

	rows := len(options)
	if described {
		rows *= delegate.Height() + delegate.Spacing()
	}
	l := list.New(items, delegate, 60, min(rows+6, maxSelectHeight))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return selectModel{list: l, selected: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m.cancel()
		}
		// While typing a filter, keys belong to the filter input.
		if m.list.FilterState() != list.Filtering {
			switch key {
			case "enter":
				if item, ok := m.list.SelectedItem().(optionItem); ok {
					m.selected = item.index
				}
				m.done = true
				return m, tea.Quit
			case "esc", "q":
				if m.list.FilterState() == list.FilterApplied && key == "esc" {
					break
				}
				return m.cancel()
			}
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	m.done = true
	return m, tea.Quit
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

// Select shows options under title and returns the chosen one. Typing "/"
// filters by title and description.
func Select(title string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	final, err := newProgram(newSelectModel(title, options)).Run()
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)

	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Option: options[m.selected], Index: m.selected}, nil
}
