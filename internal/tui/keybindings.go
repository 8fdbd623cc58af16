package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/or-haklay/hayotush/internal/core/toast"
)

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeShow
	ActionTypeHide
	ActionTypeHideAll
	ActionTypeToggleLanguage
	ActionTypeQuit
)

// Action represents a resolved keybinding.
type Action struct {
	Type ActionType
	Kind toast.Kind // set for ActionTypeShow
}

type binding struct {
	binding key.Binding
	action  Action
	helpKey string // i18n key for the help text
}

// KeybindingHandler maps key presses to actions.
type KeybindingHandler struct {
	bindings []binding
}

// NewKeybindingHandler returns the default key map.
func NewKeybindingHandler() *KeybindingHandler {
	show := func(k, kind string, helpKey string) binding {
		return binding{
			binding: key.NewBinding(key.WithKeys(k), key.WithHelp(k, kind)),
			action:  Action{Type: ActionTypeShow, Kind: toast.Kind(kind)},
			helpKey: helpKey,
		}
	}

	return &KeybindingHandler{
		bindings: []binding{
			show("s", string(toast.KindSuccess), "help.show_success"),
			show("e", string(toast.KindError), "help.show_error"),
			show("w", string(toast.KindWarning), "help.show_warning"),
			show("i", string(toast.KindInfo), "help.show_info"),
			{
				binding: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide")),
				action:  Action{Type: ActionTypeHide},
				helpKey: "help.hide",
			},
			{
				binding: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "hide all")),
				action:  Action{Type: ActionTypeHideAll},
				helpKey: "help.hide_all",
			},
			{
				binding: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
				action:  Action{Type: ActionTypeToggleLanguage},
				helpKey: "help.toggle_language",
			},
			{
				binding: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
				action:  Action{Type: ActionTypeQuit},
				helpKey: "help.quit",
			},
		},
	}
}

// Resolve returns the action bound to k.
func (h *KeybindingHandler) Resolve(k string) (Action, bool) {
	for _, b := range h.bindings {
		for _, bk := range b.binding.Keys() {
			if bk == k {
				return b.action, true
			}
		}
	}
	return Action{}, false
}

// HelpBindings returns bindings with help text translated by t.
func (h *KeybindingHandler) HelpBindings(t func(key string, args ...any) string) []key.Binding {
	out := make([]key.Binding, 0, len(h.bindings))
	for _, b := range h.bindings {
		out = append(out, key.NewBinding(
			key.WithKeys(b.binding.Keys()...),
			key.WithHelp(b.binding.Help().Key, t(b.helpKey)),
		))
	}
	return out
}
