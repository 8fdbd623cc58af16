// Package tui implements the Bubble Tea console for hayotush: a live view of
// the toast queue and the layout direction.
package tui

import (
	"context"
	"errors"
	"slices"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/or-haklay/hayotush/internal/core/i18n"
	"github.com/or-haklay/hayotush/internal/core/locale"
	"github.com/or-haklay/hayotush/internal/core/logging"
	"github.com/or-haklay/hayotush/internal/core/toast"
)

// ReloadTracker reports whether the runtime asked for a relaunch.
type ReloadTracker interface {
	ReloadRequested() bool
}

// Deps are the services the TUI drives.
type Deps struct {
	Queue        *toast.Queue
	Reconciler   *locale.Reconciler
	Catalog      *i18n.Catalog
	Runtime      ReloadTracker
	TickInterval time.Duration
	// Version is shown next to the title when set.
	Version      string
}

// Sample messages cycled by each show key.
var sampleMessages = map[toast.Kind][]string{
	toast.KindSuccess: {"toast.reminder_saved", "toast.pet_updated", "settings.saved"},
	toast.KindError:   {"toast.sync_failed", "settings.not_saved"},
	toast.KindWarning: {"toast.offline"},
	toast.KindInfo:    {"toast.new_tip", "toast.reminder_deleted"},
}

type languageChangedMsg struct {
	lang string
	err  error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	deps Deps
	log  zerolog.Logger

	keys      *KeybindingHandler
	help      help.Model
	toasts    *ToastController
	toastView *ToastView
	samples   map[toast.Kind]int

	width    int
	height   int
	quitting bool
	relaunch bool
}

// New creates the model.
func New(ctx context.Context, deps Deps) Model {
	if deps.TickInterval <= 0 {
		deps.TickInterval = toast.DefaultTickInterval
	}

	controller := NewToastController(deps.Queue)
	return Model{
		ctx:       ctx,
		deps:      deps,
		log:       logging.Component("tui"),
		keys:      NewKeybindingHandler(),
		help:      help.New(),
		toasts:    controller,
		toastView: NewToastView(controller),
		samples:   map[toast.Kind]int{},
	}
}

// Relaunch reports whether the program quit so the host can relaunch it.
func (m Model) Relaunch() bool {
	return m.relaunch
}

func (m Model) Init() tea.Cmd {
	if m.toasts.HasToasts() {
		return m.ensureTicking()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastTickMsg:
		m.toasts.Tick(time.Time(msg), m.deps.TickInterval)
		if !m.toasts.HasToasts() {
			m.toasts.SetTicking(false)
			return m, nil
		}
		return m, scheduleToastTick(m.deps.TickInterval)

	case languageChangedMsg:
		return m.handleLanguageChanged(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	action, ok := m.keys.Resolve(msg.String())
	if !ok {
		return m, nil
	}

	switch action.Type {
	case ActionTypeShow:
		m.toasts.Push(action.Kind, m.nextSample(action.Kind))
		return m, m.ensureTicking()
	case ActionTypeHide:
		m.toasts.Dismiss()
		return m, m.ensureTicking()
	case ActionTypeHideAll:
		m.toasts.DismissAll()
		return m, nil
	case ActionTypeToggleLanguage:
		return m, m.setLanguageCmd(m.nextLanguage())
	case ActionTypeQuit:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleLanguageChanged(msg languageChangedMsg) (tea.Model, tea.Cmd) {
	cat := m.deps.Catalog

	switch {
	case errors.Is(msg.err, locale.ErrPersist):
		m.toasts.Push(toast.KindError, cat.T("settings.not_saved"))
	case msg.err != nil:
		m.log.Error().Err(msg.err).Str("lang", msg.lang).Msg("language change failed")
		m.toasts.Push(toast.KindError, msg.err.Error())
	default:
		m.toasts.Push(toast.KindSuccess, cat.T("settings.language_changed", cat.Name(msg.lang)))
	}

	if msg.err == nil && m.deps.Runtime != nil && m.deps.Runtime.ReloadRequested() {
		m.quitting = true
		m.relaunch = true
		return m, tea.Quit
	}

	return m, m.ensureTicking()
}

func (m Model) setLanguageCmd(lang string) tea.Cmd {
	ctx, r := m.ctx, m.deps.Reconciler
	return func() tea.Msg {
		return languageChangedMsg{lang: lang, err: r.SetLanguage(ctx, lang)}
	}
}

// nextLanguage cycles through the available languages.
func (m Model) nextLanguage() string {
	langs := m.deps.Catalog.Languages()
	i := slices.Index(langs, m.deps.Reconciler.CurrentLanguage())
	return langs[(i+1)%len(langs)]
}

func (m Model) nextSample(kind toast.Kind) string {
	keys := sampleMessages[kind]
	i := m.samples[kind]
	m.samples[kind] = (i + 1) % len(keys)
	return m.deps.Catalog.T(keys[i])
}

func (m Model) ensureTicking() tea.Cmd {
	if m.toasts.Ticking() || !m.toasts.HasToasts() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick(m.deps.TickInterval)
}
