package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// FormTheme returns a huh theme in the colors of the active palette. huh
// still renders with lipgloss v1, so colors are passed as hex strings.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := v1Color(Current.Primary)
	accent := v1Color(Current.Accent)
	muted := v1Color(Current.Muted)
	errColor := v1Color(Current.Error)

	t.Focused.Base = t.Focused.Base.BorderForeground(muted)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(accent)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errColor)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errColor)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipglossv1.HiddenBorder())
	return t
}

func v1Color(c color.Color) lipglossv1.TerminalColor {
	if h := hex(c); h != nil {
		return lipglossv1.Color(*h)
	}
	return lipglossv1.NoColor{}
}
