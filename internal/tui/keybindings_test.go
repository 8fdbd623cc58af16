package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/or-haklay/hayotush/internal/core/toast"
)

func TestKeybindingHandler_Resolve(t *testing.T) {
	handler := NewKeybindingHandler()

	tests := []struct {
		key      string
		wantOK   bool
		wantType ActionType
		wantKind toast.Kind
	}{
		{key: "s", wantOK: true, wantType: ActionTypeShow, wantKind: toast.KindSuccess},
		{key: "e", wantOK: true, wantType: ActionTypeShow, wantKind: toast.KindError},
		{key: "w", wantOK: true, wantType: ActionTypeShow, wantKind: toast.KindWarning},
		{key: "i", wantOK: true, wantType: ActionTypeShow, wantKind: toast.KindInfo},
		{key: "x", wantOK: true, wantType: ActionTypeHide},
		{key: "X", wantOK: true, wantType: ActionTypeHideAll},
		{key: "l", wantOK: true, wantType: ActionTypeToggleLanguage},
		{key: "q", wantOK: true, wantType: ActionTypeQuit},
		{key: "ctrl+c", wantOK: true, wantType: ActionTypeQuit},
		{key: "z", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			action, ok := handler.Resolve(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantType, action.Type)
			assert.Equal(t, tt.wantKind, action.Kind)
		})
	}
}

func TestKeybindingHandler_HelpBindings_translated(t *testing.T) {
	handler := NewKeybindingHandler()

	translate := func(key string, _ ...any) string { return "T(" + key + ")" }
	bindings := handler.HelpBindings(translate)

	assert.Len(t, bindings, 8)
	assert.Equal(t, "s", bindings[0].Help().Key)
	assert.Equal(t, "T(help.show_success)", bindings[0].Help().Desc)
	assert.Equal(t, "T(help.quit)", bindings[7].Help().Desc)
}
