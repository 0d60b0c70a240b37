package styles

import (
	"slices"
	"testing"
)

func TestSelectTheme(t *testing.T) {
	t.Parallel()

	dark := func() bool { return true }
	light := func() bool { return false }

	tests := []struct {
		name   string
		theme  string
		mode   string
		isDark func() bool
		want   Theme
	}{
		{"default dark", "default", "dark", dark, DefaultTheme},
		{"unknown falls back", "solarized", "", dark, DefaultTheme},
		{"default has no light variant", "default", "light", light, DefaultTheme},
		{"auto dark", "orange", "auto", dark, OrangeTheme},
		{"auto light", "orange", "auto", light, OrangeLightTheme},
		{"explicit light ignores background", "nord", "light", dark, NordLightTheme},
		{"none", "none", "dark", dark, NoneTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := selectTheme(tt.theme, tt.mode, tt.isDark)
			if got != tt.want {
				t.Errorf("selectTheme(%q, %q) = %v, want %v", tt.theme, tt.mode, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	want := []string{"default", "none", "nord", "orange"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
