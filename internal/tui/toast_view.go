package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/core/toast"
)

type toastTickMsg time.Time

func scheduleToastTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the active toasts and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the active toasts stacked vertically, oldest on top. In
// right-to-left mode the text is right-aligned inside each toast.
func (v *ToastView) View(rtl bool) string {
	snap := v.controller.Snapshot()
	if len(snap.Active) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(snap.Active))
	for _, req := range snap.Active {
		rendered = append(rendered, renderToast(req, rtl))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(req toast.Request, rtl bool) string {
	var icon string
	var style lipgloss.Style

	switch req.Kind {
	case toast.KindSuccess:
		icon = styles.IconNotifySuccess
		style = styles.ToastSuccessStyle
	case toast.KindError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case toast.KindWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + req.Message
	align := lipgloss.Left
	if rtl {
		content = req.Message + " " + icon
		align = lipgloss.Right
	}

	return style.Width(toastWidth).Align(align).Render(content)
}

// Overlay composites the toasts over background in the bottom corner on the
// trailing side: right for left-to-right, left for right-to-left.
func (v *ToastView) Overlay(background string, width, height int, rtl bool) string {
	toastContent := v.View(rtl)
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	x := max(width-toastW-1, 0)
	if rtl {
		x = 1
	}
	bottomY := max(height-toastH, 0)

	toastLayer.X(x).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
