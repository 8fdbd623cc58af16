package locale

import "context"

// Runtime is the host capability that owns the global direction flag.
//
// ForceRTL records the direction the runtime should use; the change is only
// guaranteed to apply after Reload restarts the application.
type Runtime interface {
	IsRTL() bool
	AllowsRTL() bool
	SetAllowRTL(allow bool)
	ForceRTL(rtl bool) error
	Reload(ctx context.Context) error
}

// Translator switches the active translation resources.
type Translator interface {
	ChangeLanguage(lang string) error
	Language() string
	Languages() []string
}

// LatchState tracks the one reload a process is allowed to trigger.
type LatchState int

const (
	LatchNotAttempted LatchState = iota
	LatchReloading
	LatchCompleted
)

func (s LatchState) String() string {
	switch s {
	case LatchReloading:
		return "reloading"
	case LatchCompleted:
		return "completed"
	default:
		return "not-attempted"
	}
}

func (s LatchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
