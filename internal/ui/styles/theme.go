package styles

import (
	"image/color"
	"os"
	"sort"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color
	Accent  color.Color
	Success color.Color
	Error   color.Color
	Muted   color.Color
	Normal  color.Color
	Info    color.Color
	Warning color.Color
}

// themeFamily groups light and dark variants of a theme
type themeFamily struct {
	Light *Theme // nil if no light variant
	Dark  *Theme // nil if no dark variant
}

var (
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Muted:   lipgloss.Color("240"),
		Normal:  lipgloss.Color("252"),
		Info:    lipgloss.Color("244"),
		Warning: lipgloss.Color("214"),
	}

	// OrangeTheme follows Cloudflare's dashboard colors.
	OrangeTheme = Theme{
		Primary: lipgloss.Color("#f6821f"),
		Accent:  lipgloss.Color("#fbad41"),
		Success: lipgloss.Color("#2db35d"),
		Error:   lipgloss.Color("#e81403"),
		Muted:   lipgloss.Color("#6b6b6b"),
		Normal:  lipgloss.Color("#e5e5e5"),
		Info:    lipgloss.Color("#9ca3af"),
		Warning: lipgloss.Color("#ffbd4a"),
	}

	OrangeLightTheme = Theme{
		Primary: lipgloss.Color("#c35a04"),
		Accent:  lipgloss.Color("#a15c00"),
		Success: lipgloss.Color("#1a7f3c"),
		Error:   lipgloss.Color("#b30f02"),
		Muted:   lipgloss.Color("#8a8a8a"),
		Normal:  lipgloss.Color("#222222"),
		Info:    lipgloss.Color("#5b6470"),
		Warning: lipgloss.Color("#9a5b00"),
	}

	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#4c566a"),
		Normal:  lipgloss.Color("#eceff4"),
		Info:    lipgloss.Color("#81a1c1"),
		Warning: lipgloss.Color("#ebcb8b"),
	}

	NordLightTheme = Theme{
		Primary: lipgloss.Color("#5e81ac"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#9a9a9a"),
		Normal:  lipgloss.Color("#2e3440"),
		Info:    lipgloss.Color("#81a1c1"),
		Warning: lipgloss.Color("#d08770"),
	}

	// NoneTheme renders without any colors (uses terminal defaults)
	// Formatting (bold/italic) is preserved
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

var themeFamilies = map[string]themeFamily{
	"none":    {Light: &NoneTheme, Dark: &NoneTheme},
	"default": {Dark: &DefaultTheme},
	"orange":  {Light: &OrangeLightTheme, Dark: &OrangeTheme},
	"nord":    {Light: &NordLightTheme, Dark: &NordTheme},
}

// Modes are the accepted theme modes.
var Modes = []string{"auto", "light", "dark"}

// Names returns the available theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(themeFamilies))
	for name := range themeFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init selects a theme by name and mode ("auto", "light" or "dark").
// Unknown names fall back to "default". Call it before rendering any UI.
func Init(name, mode string) {
	theme := selectTheme(name, mode, func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stderr)
	})
	applyTheme(theme)
}

// selectTheme picks the variant of a family for the background reported by
// isDark, which is only consulted in auto mode.
func selectTheme(name, mode string, isDark func() bool) Theme {
	family, ok := themeFamilies[name]
	if !ok {
		family = themeFamilies["default"]
	}

	var theme *Theme
	switch mode {
	case "light":
		theme = family.Light
	case "dark":
		theme = family.Dark
	default:
		if isDark() {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}

	// Fall back if the requested variant doesn't exist
	if theme == nil {
		if family.Dark != nil {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}
	return *theme
}

// applyTheme updates all global style variables to use the given theme
func applyTheme(t Theme) {
	Primary = t.Primary
	Accent = t.Accent
	Success = t.Success
	Error = t.Error
	Muted = t.Muted
	Normal = t.Normal
	Info = t.Info
	Warning = t.Warning

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
