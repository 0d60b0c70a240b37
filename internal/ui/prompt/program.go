package prompt

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// Interactive reports whether prompts can be shown: stdin must be a terminal
// to read keys and stderr a terminal to draw on.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newProgram renders to stderr so stdout stays clean for piping.
func newProgram(model tea.Model) *tea.Program {
	// Detect color profile for stderr (handles piped output, NO_COLOR, etc.)
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	return tea.NewProgram(model,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
}
