package progress

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/kvview/internal/ui/styles"
)

// barWidth is the width of the bar itself, without title and counts.
const barWidth = 30

// Tally counts the finished steps of a batch.
type Tally struct {
	Total  int
	Done   int // finished steps, failed ones included
	Failed int
}

// Fraction is the finished share of Total, clamped to [0, 1].
func (t Tally) Fraction() float64 {
	if t.Total <= 0 {
		return 0
	}
	return min(float64(t.Done)/float64(t.Total), 1)
}

// String renders the counts, e.g. "3/10" or "3/10, 1 failed".
func (t Tally) String() string {
	if t.Failed == 0 {
		return fmt.Sprintf("%d/%d", t.Done, t.Total)
	}
	return fmt.Sprintf("%d/%d, %d failed", t.Done, t.Total, t.Failed)
}

// stepMsg carries the state after a finished step.
type stepMsg struct {
	tally  Tally
	label  string
	failed bool
}

// ProgressBar tracks a batch of operations of known size, such as the
// writes of an import. Steps may be reported from several goroutines.
type ProgressBar struct {
	display

	title string

	tallyMu sync.Mutex
	last    stepMsg
}

type progressBarModel struct {
	bar     progress.Model
	title   string
	status  stepMsg
	updates <-chan tea.Msg
}

func (m progressBarModel) Init() tea.Cmd {
	return waitFor(m.updates)
}

func (m progressBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.status = msg
		return m, waitFor(m.updates)
	default:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	}
}

func (m progressBarModel) View() tea.View {
	return tea.NewView(statusLine(m.title, m.bar.ViewAs(m.status.tally.Fraction()), m.status))
}

// statusLine renders e.g. "Importing ███░░ 3/10, 1 failed  Writing user/42".
// The counts and the last label turn red once a step failed.
func statusLine(title, bar string, s stepMsg) string {
	var b strings.Builder
	b.WriteString(styles.Bold.Render(title))
	b.WriteString(" ")
	b.WriteString(bar)
	b.WriteString(" ")
	if s.tally.Failed > 0 {
		b.WriteString(styles.ErrorStyle.Render(s.tally.String()))
	} else {
		b.WriteString(s.tally.String())
	}
	if s.label != "" {
		b.WriteString("  ")
		if s.failed {
			b.WriteString(styles.ErrorStyle.Render(s.label))
		} else {
			b.WriteString(styles.MutedStyle.Render(s.label))
		}
	}
	return b.String()
}

// NewProgressBar creates a bar for total steps, shown after title.
func NewProgressBar(total int, title string) *ProgressBar {
	return &ProgressBar{title: title, last: stepMsg{tally: Tally{Total: total}}}
}

// Start shows the bar.
func (p *ProgressBar) Start() {
	p.tallyMu.Lock()
	status := p.last
	p.tallyMu.Unlock()

	p.start(func(updates <-chan tea.Msg) tea.Model {
		bar := progress.New(
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Primary, styles.Accent),
		)
		return progressBarModel{bar: bar, title: p.title, status: status, updates: updates}
	})
}

// Step records one finished operation described by label. A non-nil err
// counts it as failed.
func (p *ProgressBar) Step(label string, err error) {
	p.tallyMu.Lock()
	p.last.tally.Done++
	if err != nil {
		p.last.tally.Failed++
	}
	p.last.label = label
	p.last.failed = err != nil
	// Sent under the lock so concurrent steps reach the display in order.
	p.send(p.last)
	p.tallyMu.Unlock()
}

// Tally returns the counts so far.
func (p *ProgressBar) Tally() Tally {
	p.tallyMu.Lock()
	defer p.tallyMu.Unlock()
	return p.last.tally
}

// Stop removes the bar and returns the final counts.
func (p *ProgressBar) Stop() Tally {
	p.stop()
	return p.Tally()
}
