// Package styles holds the lipgloss styles shared by the CLI output and the
// TUI. Styles are package globals rebuilt by SetTheme.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Current is the palette most recently passed to SetTheme.
var Current Palette

// CLI output.
var (
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	WarningStyle       lipgloss.Style
	HelpDescStyle      lipgloss.Style
)

// TUI.
var (
	TitleStyle       lipgloss.Style
	StatusStyle      lipgloss.Style
	PendingStyle     lipgloss.Style
	RestartHintStyle lipgloss.Style

	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// SetTheme makes p the active palette and rebuilds every style.
func SetTheme(p Palette) {
	Current = p

	CommandHeaderStyle = fg(p.Primary).Bold(true)
	DividerStyle = fg(p.Muted)
	SuccessStyle = fg(p.Success)
	ErrorStyle = fg(p.Error)
	WarningStyle = fg(p.Warning)
	HelpDescStyle = fg(p.Muted)

	TitleStyle = fg(p.Primary).Bold(true)
	StatusStyle = fg(p.Foreground)
	PendingStyle = fg(p.Muted).Italic(true)
	RestartHintStyle = fg(p.Warning).Italic(true)

	toast := fg(p.Foreground).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	ToastSuccessStyle = toast.BorderForeground(p.Success)
	ToastErrorStyle = toast.BorderForeground(p.Error)
	ToastWarningStyle = toast.BorderForeground(p.Warning)
	ToastInfoStyle = toast.BorderForeground(p.Info)
}

// nolint:gochecknoinits // styles must be usable before config is loaded.
func init() {
	SetTheme(themes[DefaultTheme])
}

func hex(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	h := cc.Hex()
	return &h
}

// GlamourStyle adapts glamour's dark style to the active palette.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	text, primary := hex(Current.Foreground), hex(Current.Primary)

	cfg.Document.Color = text
	cfg.Paragraph.Color = text
	cfg.Table.Color = text
	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.Code.Color = hex(Current.Accent)
	cfg.Emph.Color = hex(Current.Muted)
	cfg.HorizontalRule.Color = hex(Current.Muted)
	return cfg
}
