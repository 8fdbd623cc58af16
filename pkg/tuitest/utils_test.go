package tuitest

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mTitle\x1b[0m   \n\x1b[31mred\x1b[0m\n\n"
	assert.Equal(t, "Title\nred", StripANSI(in))
}

func TestKeyPress_String(t *testing.T) {
	tests := []struct {
		msg  tea.Msg
		want string
	}{
		{KeyPress('s'), "s"},
		{KeyPress('X'), "X"},
		{Ctrl('c'), "ctrl+c"},
	}

	for _, tt := range tests {
		k, ok := tt.msg.(tea.KeyPressMsg)
		require.True(t, ok)
		assert.Equal(t, tt.want, k.String())
	}
}
