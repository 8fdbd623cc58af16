package locale

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/or-haklay/hayotush/internal/core/kv"
	"github.com/or-haklay/hayotush/internal/core/logging"
)

const (
	// PreferencesNamespace scopes user settings in the KV store.
	PreferencesNamespace = "settings"
	// LanguageKey holds the persisted language code.
	LanguageKey = "appLanguage"
	// DefaultLanguage is used when neither a persisted nor a device language
	// is available and the caller supplies no fallback.
	DefaultLanguage = "he"
)

var (
	// ErrPersist wraps failures writing the language preference.
	ErrPersist = errors.New("persist language preference")
	// ErrUnsupportedLanguage is returned for codes the translator cannot load.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Options configures a Reconciler.
type Options struct {
	Runtime     Runtime
	Translator  Translator
	Preferences kv.KV

	// IsDevelopmentHost disables forcing the runtime direction and reloading.
	// Resolved once at startup by the host.
	IsDevelopmentHost bool

	Logger *zerolog.Logger
}

// State is the direction state read by rendering layers.
type State struct {
	Language        string     `json:"language"`
	Direction       Direction  `json:"direction"`
	RuntimeIsRTL    bool       `json:"runtime_is_rtl"`
	AllowRTL        bool       `json:"allow_rtl"`
	Latch           LatchState `json:"reload_latch"`
	DevelopmentHost bool       `json:"development_host"`
}

// Reconciler keeps the persisted language, the runtime RTL flag and the
// translator in agreement. One instance is created per process.
type Reconciler struct {
	runtime    Runtime
	translator Translator
	prefs      *kv.Namespace[string]
	devHost    bool
	log        zerolog.Logger

	// switching serializes SetLanguage and Bootstrap end to end.
	switching sync.Mutex

	mu           sync.Mutex
	language     string
	runtimeIsRTL bool
	allowRTL     bool
	latch        LatchState
}

// NewReconciler creates a reconciler seeded from the runtime's current flags.
func NewReconciler(opts Options) *Reconciler {
	r := &Reconciler{
		runtime:      opts.Runtime,
		translator:   opts.Translator,
		prefs:        kv.Scoped[string](opts.Preferences, PreferencesNamespace),
		devHost:      opts.IsDevelopmentHost,
		runtimeIsRTL: opts.Runtime.IsRTL(),
		allowRTL:     opts.Runtime.AllowsRTL(),
		language:     opts.Translator.Language(),
	}

	if opts.Logger != nil {
		r.log = *opts.Logger
	} else {
		r.log = logging.Component("locale")
	}

	return r
}

// EnsureDirection makes the runtime direction match lang. On a development
// host only allowRTL changes. Otherwise the runtime flag is forced and, on
// the first flip of the process lifetime, the application is reloaded.
// Reload failures are logged and never returned.
func (r *Reconciler) EnsureDirection(ctx context.Context, lang string) error {
	ctx = logging.WithLanguage(ctx, lang)
	shouldBeRTL := IsRTLLanguage(lang)

	r.mu.Lock()
	if r.runtimeIsRTL == shouldBeRTL {
		r.mu.Unlock()
		return nil
	}

	r.allowRTL = shouldBeRTL
	r.runtime.SetAllowRTL(shouldBeRTL)

	if r.devHost {
		r.mu.Unlock()
		r.log.Debug().Ctx(ctx).
			Bool("rtl", shouldBeRTL).
			Msg("development host: skipping forced direction and reload")
		return nil
	}

	if err := r.runtime.ForceRTL(shouldBeRTL); err != nil {
		r.mu.Unlock()
		r.log.Warn().Ctx(ctx).Err(err).Msg("failed to force runtime direction")
		return nil
	}
	r.runtimeIsRTL = shouldBeRTL

	reload := r.latch == LatchNotAttempted
	if reload {
		r.latch = LatchReloading
	}
	r.mu.Unlock()

	if !reload {
		r.log.Debug().Ctx(ctx).Msg("reload already attempted this process, direction applies on next launch")
		return nil
	}

	r.log.Info().Ctx(ctx).Bool("rtl", shouldBeRTL).Msg("reloading to apply direction")
	err := r.runtime.Reload(ctx)

	r.mu.Lock()
	r.latch = LatchCompleted
	r.mu.Unlock()

	if err != nil {
		r.log.Warn().Ctx(ctx).Err(err).Msg("reload failed")
	}
	return nil
}

// SetLanguage persists lang, reconciles the direction and then switches the
// translator. The preference is written first so a reload triggered during
// reconciliation relaunches with the right language. If the write fails the
// error wraps ErrPersist and no other state changes.
func (r *Reconciler) SetLanguage(ctx context.Context, lang string) error {
	lang = Normalize(lang)
	ctx = logging.WithOperation(logging.WithLanguage(ctx, lang), "set_language")

	r.switching.Lock()
	defer r.switching.Unlock()

	if !r.supports(lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	if err := r.prefs.Set(ctx, LanguageKey, lang); err != nil {
		r.log.Error().Ctx(ctx).Err(err).Msg("failed to persist language")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := r.EnsureDirection(ctx, lang); err != nil {
		return err
	}

	if err := r.translator.ChangeLanguage(lang); err != nil {
		return fmt.Errorf("change language: %w", err)
	}

	r.mu.Lock()
	r.language = lang
	r.mu.Unlock()

	r.log.Info().Ctx(ctx).Msg("language changed")
	return nil
}

// Bootstrap picks the startup language (persisted, then device locale, then
// fallback), activates it and reconciles the direction once.
func (r *Reconciler) Bootstrap(ctx context.Context, deviceLocale, fallback string) (string, error) {
	ctx = logging.WithOperation(ctx, "bootstrap")

	r.switching.Lock()
	defer r.switching.Unlock()

	lang, source := "", ""

	persisted, saved, err := r.prefs.Lookup(ctx, LanguageKey)
	switch {
	case err != nil:
		r.log.Warn().Ctx(ctx).Err(err).Msg("failed to load persisted language")
	case saved && r.supports(Normalize(persisted)):
		lang, source = Normalize(persisted), "persisted"
	case saved:
		r.log.Warn().Ctx(ctx).Str("persisted", persisted).Msg("ignoring unsupported persisted language")
	}

	if lang == "" {
		if m, ok := MatchDeviceLocale(deviceLocale, r.translator.Languages()); ok {
			lang, source = m, "device"
		}
	}

	if lang == "" {
		lang, source = Normalize(fallback), "default"
		if lang == "" {
			lang = DefaultLanguage
		}
	}

	if err := r.translator.ChangeLanguage(lang); err != nil {
		return "", fmt.Errorf("change language: %w", err)
	}

	r.mu.Lock()
	r.language = lang
	r.mu.Unlock()

	r.log.Debug().Ctx(logging.WithLanguage(ctx, lang)).Str("source", source).Msg("startup language resolved")

	if err := r.EnsureDirection(ctx, lang); err != nil {
		return lang, err
	}
	return lang, nil
}

// CurrentLanguage returns the active language code.
func (r *Reconciler) CurrentLanguage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.language
}

// Direction returns the direction the runtime is currently rendering with.
func (r *Reconciler) Direction() Direction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runtimeIsRTL {
		return RTL
	}
	return LTR
}

// State returns a copy of the direction state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := LTR
	if r.runtimeIsRTL {
		dir = RTL
	}

	return State{
		Language:        r.language,
		Direction:       dir,
		RuntimeIsRTL:    r.runtimeIsRTL,
		AllowRTL:        r.allowRTL,
		Latch:           r.latch,
		DevelopmentHost: r.devHost,
	}
}

// PersistedLanguage returns the stored preference, or "" when none is saved.
func (r *Reconciler) PersistedLanguage(ctx context.Context) (string, error) {
	lang, _, err := r.prefs.Lookup(ctx, LanguageKey)
	return lang, err
}

func (r *Reconciler) supports(lang string) bool {
	return lang != "" && slices.Contains(r.translator.Languages(), lang)
}
