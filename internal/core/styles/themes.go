package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors a theme provides.
type Palette struct {
	Primary    color.Color
	Accent     color.Color
	Foreground color.Color
	Muted      color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
	Info       color.Color
}

// DefaultTheme is used when the config does not name one.
const DefaultTheme = "meadow"

var themes = map[string]Palette{
	// Warm greens and ambers, the app's own colors.
	"meadow": {
		Primary:    lipgloss.Color("#e9a23b"),
		Accent:     lipgloss.Color("#7fb77e"),
		Foreground: lipgloss.Color("#ece3d0"),
		Muted:      lipgloss.Color("#8a8170"),
		Success:    lipgloss.Color("#7fb77e"),
		Warning:    lipgloss.Color("#f2c14e"),
		Error:      lipgloss.Color("#e76f51"),
		Info:       lipgloss.Color("#6fa8dc"),
	},
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Accent:     lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Info:       lipgloss.Color("#7aa2f7"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Accent:     lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
		Info:       lipgloss.Color("#83a598"),
	},
	"catppuccin": {
		Primary:    lipgloss.Color("#89b4fa"),
		Accent:     lipgloss.Color("#94e2d5"),
		Foreground: lipgloss.Color("#cdd6f4"),
		Muted:      lipgloss.Color("#6c7086"),
		Success:    lipgloss.Color("#a6e3a1"),
		Warning:    lipgloss.Color("#f9e2af"),
		Error:      lipgloss.Color("#f38ba8"),
		Info:       lipgloss.Color("#89dceb"),
	},
}

// ThemeNames lists the built-in themes in sorted order.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// GetPalette looks up a built-in theme by name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
