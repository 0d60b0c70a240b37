package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// stopTimeout bounds how long Stop waits for the program to exit.
const stopTimeout = 500 * time.Millisecond

// enabled reports whether stderr can show animated output.
func enabled() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newProgram(model tea.Model) *tea.Program {
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	return tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
		tea.WithInput(nil),
	)
}

// display runs one stderr program and feeds it status messages. Only the
// latest undelivered message is kept: a slow terminal skips intermediate
// states instead of blocking the wrangler call being reported.
type display struct {
	mu      sync.Mutex
	program *tea.Program
	updates chan tea.Msg
	done    chan struct{}
	running bool
}

// start runs the model built by build unless stderr is not a terminal or the
// display already runs.
func (d *display) start(build func(updates <-chan tea.Msg) tea.Model) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running || !enabled() {
		return
	}
	d.updates = make(chan tea.Msg, 1)
	d.done = make(chan struct{})
	d.program = newProgram(build(d.updates))
	d.running = true

	done := d.done
	program := d.program
	go func() {
		_, _ = program.Run()
		close(done)
	}()
}

// send delivers msg to a running display, replacing an undelivered one.
// It reports false when nothing is running.
func (d *display) send(msg tea.Msg) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return false
	}
	select {
	case d.updates <- msg:
		return true
	default:
	}
	select {
	case <-d.updates:
	default:
	}
	select {
	case d.updates <- msg:
	default:
	}
	return true
}

// stop quits the program and clears its line.
func (d *display) stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.updates)
	program, done := d.program, d.done
	d.mu.Unlock()

	program.Quit()
	select {
	case <-done:
	case <-time.After(stopTimeout):
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}

// waitFor returns the next message from updates, or quits once it closes.
func waitFor(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}
