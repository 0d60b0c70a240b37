// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions and styling to ensure
// visual consistency across the static, progress and prompt packages
// and the shell.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors used throughout the UI. Replaced by Init.
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for keys and prompts (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for completed writes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for secondary text like expirations (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")

	// Info is used for informational text (gray)
	Info color.Color = lipgloss.Color("244")

	// Warning is used for expired entries (orange)
	Warning color.Color = lipgloss.Color("214")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	NormalStyle = lipgloss.NewStyle().Foreground(Normal)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)

	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
)
