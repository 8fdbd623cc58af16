// Package toast serializes transient user-facing notifications so that a
// bounded number are visible at a time and the rest wait in arrival order.
//
// The queue is pure state. Time enters only through Advance, which is called
// either by a presentation layer's own tick (see internal/tui) or by Run.
package toast

import (
	"time"

	"github.com/or-haklay/hayotush/internal/core/notify"
)

// Kind is the visual category of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindSuccess, KindError, KindWarning, KindInfo}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// normalize maps unrecognized kinds to info.
func (k Kind) normalize() Kind {
	if k.Valid() {
		return k
	}
	return KindInfo
}

// Level converts the kind to the persisted notification level.
func (k Kind) Level() notify.Level {
	switch k.normalize() {
	case KindSuccess:
		return notify.LevelSuccess
	case KindError:
		return notify.LevelError
	case KindWarning:
		return notify.LevelWarning
	default:
		return notify.LevelInfo
	}
}

// ParseKind parses a kind name. Unknown names return false.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}

const (
	DefaultSettleGap    = 100 * time.Millisecond
	DefaultMaxActive    = 1
	DefaultTickInterval = 100 * time.Millisecond
)

// NoSettleGap disables the pause between consecutive toasts. A zero
// SettleGap means DefaultSettleGap.
const NoSettleGap time.Duration = -1

// Durations holds the display duration used when a caller does not supply one.
type Durations struct {
	Success time.Duration `yaml:"success"`
	Error   time.Duration `yaml:"error"`
	Warning time.Duration `yaml:"warning"`
	Info    time.Duration `yaml:"info"`
}

// DefaultDurations returns the built-in per-kind durations.
func DefaultDurations() Durations {
	return Durations{
		Success: 3 * time.Second,
		Error:   4 * time.Second,
		Warning: 3 * time.Second,
		Info:    3 * time.Second,
	}
}

// For returns the duration for kind k, falling back to the built-in default
// when the configured value is not positive.
func (d Durations) For(k Kind) time.Duration {
	defaults := DefaultDurations()

	var v, def time.Duration
	switch k.normalize() {
	case KindSuccess:
		v, def = d.Success, defaults.Success
	case KindError:
		v, def = d.Error, defaults.Error
	case KindWarning:
		v, def = d.Warning, defaults.Warning
	default:
		v, def = d.Info, defaults.Info
	}

	if v > 0 {
		return v
	}
	return def
}

// Request is a single toast from creation until dismissal.
type Request struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Kind      Kind          `json:"kind"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Snapshot is a copy of the queue state handed to observers.
type Snapshot struct {
	Active     []Request `json:"active"`
	Pending    []Request `json:"pending"`
	Processing bool      `json:"processing"`
}

// Empty reports whether nothing is visible or waiting.
func (s Snapshot) Empty() bool {
	return len(s.Active) == 0 && len(s.Pending) == 0
}

// Subscriber is invoked with a fresh snapshot after every state transition.
type Subscriber func(Snapshot)
