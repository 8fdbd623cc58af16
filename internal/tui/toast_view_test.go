package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/core/toast"
	"github.com/or-haklay/hayotush/pkg/tuitest"
)

func TestToastView_View_empty(t *testing.T) {
	v := NewToastView(newTestController(t))

	assert.Empty(t, v.View(false))
}

func TestToastView_View_renders_each_kind(t *testing.T) {
	tests := []struct {
		kind toast.Kind
		icon string
	}{
		{toast.KindSuccess, styles.IconNotifySuccess},
		{toast.KindError, styles.IconNotifyError},
		{toast.KindWarning, styles.IconNotifyWarning},
		{toast.KindInfo, styles.IconNotifyInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := newTestController(t)
			v := NewToastView(c)

			c.Push(tt.kind, "test msg")

			out := v.View(false)
			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "test msg")
		})
	}
}

func TestToastView_View_only_active(t *testing.T) {
	c := newTestController(t)
	v := NewToastView(c)

	c.Push(toast.KindInfo, "first")
	c.Push(toast.KindError, "second")

	out := v.View(false)
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "second", "pending toasts are not drawn")
}

func TestToastView_View_rtl_alignment(t *testing.T) {
	c := newTestController(t)
	v := NewToastView(c)
	c.Push(toast.KindInfo, "שלום")

	ltr := tuitest.StripANSI(v.View(false))
	rtl := tuitest.StripANSI(v.View(true))

	ltrLine := strings.Split(ltr, "\n")[1]
	rtlLine := strings.Split(rtl, "\n")[1]

	assert.Less(t, strings.Index(ltrLine, styles.IconNotifyInfo), strings.Index(ltrLine, "שלום"))
	assert.Greater(t, strings.Index(rtlLine, styles.IconNotifyInfo), strings.Index(rtlLine, "שלום"))
	assert.Greater(t, strings.Index(rtlLine, "שלום"), strings.Index(ltrLine, "שלום"), "rtl text is pushed to the right edge")
}

func TestToastView_Overlay_no_toasts(t *testing.T) {
	v := NewToastView(newTestController(t))

	bg := "background"
	assert.Equal(t, bg, v.Overlay(bg, 80, 24, false))
}

func TestToastView_Overlay_places_toast(t *testing.T) {
	c := newTestController(t)
	v := NewToastView(c)
	c.Push(toast.KindWarning, "careful")

	bg := strings.Repeat(strings.Repeat(".", 80)+"\n", 23) + strings.Repeat(".", 80)
	out := tuitest.StripANSI(v.Overlay(bg, 80, 24, false))

	assert.Contains(t, out, "careful")
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[len(lines)-2], "careful", "toast sits at the bottom")
}
