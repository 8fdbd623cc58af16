package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/or-haklay/hayotush/internal/core/locale"
	"github.com/or-haklay/hayotush/internal/core/styles"
)

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	rtl := m.deps.Reconciler.State().RuntimeIsRTL
	content := m.toastView.Overlay(m.renderBody(w, h), w, h, rtl)

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) renderBody(w, h int) string {
	var (
		cat   = m.deps.Catalog
		state = m.deps.Reconciler.State()
		snap  = m.toasts.Snapshot()
	)

	title := styles.TitleStyle.Render(cat.T("app.title"))
	if v := m.deps.Version; v != "" {
		title += " " + styles.HelpDescStyle.Render(v)
	}

	dirIcon := styles.IconDirectionLTR
	if state.RuntimeIsRTL {
		dirIcon = styles.IconDirectionRTL
	}

	lines := []string{
		title,
		"",
		styles.StatusStyle.Render(styles.IconLanguage + " " + cat.T("app.language", cat.Name(state.Language))),
		styles.StatusStyle.Render(dirIcon + " " + cat.T("app.direction", state.Direction.String())),
	}

	switch {
	case len(snap.Pending) > 0:
		lines = append(lines, styles.PendingStyle.Render(styles.IconPending+" "+cat.T("app.pending", len(snap.Pending))))
	case len(snap.Active) == 0:
		lines = append(lines, styles.PendingStyle.Render(cat.T("app.idle")))
	}

	if locale.IsRTLLanguage(state.Language) != state.RuntimeIsRTL {
		lines = append(lines, styles.RestartHintStyle.Render(cat.T("app.restart_required")))
	}

	lines = append(lines, "", m.help.ShortHelpView(m.keys.HelpBindings(cat.T)))

	align := lipgloss.Left
	if state.RuntimeIsRTL {
		align = lipgloss.Right
	}

	return lipgloss.NewStyle().
		Width(w).
		Height(h).
		Align(align).
		Render(strings.Join(lines, "\n"))
}
