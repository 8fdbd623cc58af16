package doctor

import (
	"context"
	"fmt"
	"slices"

	"github.com/or-haklay/hayotush/internal/core/locale"
)

// LanguageState is the read side of the direction reconciler.
type LanguageState interface {
	State() locale.State
	PersistedLanguage(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, lang string) error
}

// DirectionFlags are the persisted runtime direction flags.
type DirectionFlags interface {
	ForcedRTL() bool
	AllowsRTL() bool
	PendingDirectionChange() bool
}

// LocaleCheck verifies the language preference and that the persisted
// direction flags agree with each other and with the active language.
type LocaleCheck struct {
	state     LanguageState
	flags     DirectionFlags
	supported []string
	autofix   bool
}

// NewLocaleCheck creates a new locale check. With autofix, an unsupported
// saved language is replaced by the active one.
func NewLocaleCheck(state LanguageState, flags DirectionFlags, supported []string, autofix bool) *LocaleCheck {
	return &LocaleCheck{state: state, flags: flags, supported: supported, autofix: autofix}
}

func (c *LocaleCheck) Name() string {
	return "Language"
}

func (c *LocaleCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	st := c.state.State()

	result.Items = append(result.Items, c.preferenceItem(ctx, st.Language))
	result.Items = append(result.Items, directionItem(st, c.flags.PendingDirectionChange()))
	result.Items = append(result.Items, c.flagsItem())

	return result
}

func (c *LocaleCheck) preferenceItem(ctx context.Context, active string) CheckItem {
	item := CheckItem{Label: "preference"}

	saved, err := c.state.PersistedLanguage(ctx)
	switch {
	case err != nil:
		item.Status = StatusFail
		item.Detail = err.Error()
	case saved == "":
		item.Status = StatusPass
		item.Detail = fmt.Sprintf("not saved, using %s", active)
	case !slices.Contains(c.supported, locale.Normalize(saved)):
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("saved language %q is not supported, using %s", saved, active)
		item.Fixable = true

		if c.autofix {
			if err := c.state.SetLanguage(ctx, active); err != nil {
				item.Detail += ": fix failed: " + err.Error()
				return item
			}
			item.Status = StatusPass
			item.Detail = fmt.Sprintf("fixed: replaced %q with %s", saved, active)
		}
	default:
		item.Status = StatusPass
		item.Detail = saved
	}

	return item
}

func directionItem(st locale.State, pending bool) CheckItem {
	want := locale.DirectionOf(st.Language)
	item := CheckItem{Label: "direction", Detail: st.Direction.String()}

	switch {
	case pending:
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("%s applies on next launch", want)
	case want == st.Direction:
		item.Status = StatusPass
	case st.DevelopmentHost:
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("%s, %s needs a manual restart on a development host", st.Direction, want)
	default:
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("%s, expected %s", st.Direction, want)
	}

	return item
}

func (c *LocaleCheck) flagsItem() CheckItem {
	return CheckItem{
		Label:  "runtime flags",
		Status: StatusPass,
		Detail: fmt.Sprintf("forceRTL=%t allowRTL=%t", c.flags.ForcedRTL(), c.flags.AllowsRTL()),
	}
}
