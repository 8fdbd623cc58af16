package styles

import (
	"testing"

	lipglossv1 "github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "gruvbox", "meadow", "tokyo-night"}, ThemeNames())
	assert.Contains(t, ThemeNames(), DefaultTheme)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	SetTheme(p)
	assert.Equal(t, p, Current)

	_, ok = GetPalette("solarized")
	assert.False(t, ok)
}

func TestGlamourStyle_usesPalette(t *testing.T) {
	cfg := GlamourStyle()

	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#ece3d0", *cfg.Document.Color)
	require.NotNil(t, cfg.Heading.Color)
	assert.Equal(t, "#e9a23b", *cfg.Heading.Color)
	require.NotNil(t, cfg.Code.Color)
	assert.Equal(t, "#7fb77e", *cfg.Code.Color)
}

func TestFormTheme_usesPalette(t *testing.T) {
	theme := FormTheme()

	assert.Equal(t, lipglossv1.Color("#e9a23b"), theme.Focused.Title.GetForeground())
	assert.Equal(t, lipglossv1.Color("#7fb77e"), theme.Focused.SelectedOption.GetForeground())
	assert.Equal(t, theme.Focused.Title.GetForeground(), theme.Blurred.Title.GetForeground())
}
