// Package host adapts the terminal process to the runtime capabilities the
// locale reconciler needs: a persisted direction flag and a reload.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/or-haklay/hayotush/internal/core/kv"
	"github.com/or-haklay/hayotush/internal/core/logging"
)

const (
	// Namespace scopes the runtime flags in the KV store.
	Namespace = "runtime"

	keyForceRTL = "forceRTL"
	keyAllowRTL = "allowRTL"
)

// ErrReloadUnsupported is returned by Reload when the process cannot be
// relaunched, either because reloading is disabled or the platform lacks exec.
var ErrReloadUnsupported = errors.New("reload unsupported")

// ExecFunc replaces the current process image.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Options configures a ProcessRuntime.
type Options struct {
	Store kv.KV

	// AllowReload enables Reload. When false Reload always fails with
	// ErrReloadUnsupported.
	AllowReload bool

	// Exec overrides the platform exec. Nil uses syscall.Exec where available.
	Exec ExecFunc

	Logger *zerolog.Logger
}

// ProcessRuntime keeps the direction flag in the KV store so that it survives
// a relaunch. The rendering direction is fixed at launch; ForceRTL only
// changes what the next launch renders with.
type ProcessRuntime struct {
	flags       *kv.Namespace[bool]
	allowReload bool
	exec        ExecFunc
	log         zerolog.Logger

	launchRTL bool

	mu       sync.Mutex
	allowRTL bool
	forced   bool

	reloadRequested atomic.Bool
}

// New loads the persisted flags. Missing flags default to left to right.
func New(ctx context.Context, opts Options) (*ProcessRuntime, error) {
	r := &ProcessRuntime{
		flags:       kv.Scoped[bool](opts.Store, Namespace),
		allowReload: opts.AllowReload,
		exec:        opts.Exec,
	}

	if opts.Logger != nil {
		r.log = *opts.Logger
	} else {
		r.log = logging.Component("host")
	}
	if r.exec == nil {
		r.exec = defaultExec
	}

	rtl, err := r.load(ctx, keyForceRTL)
	if err != nil {
		return nil, err
	}
	allow, err := r.load(ctx, keyAllowRTL)
	if err != nil {
		return nil, err
	}

	r.launchRTL = rtl
	r.forced = rtl
	r.allowRTL = allow || rtl

	return r, nil
}

func (r *ProcessRuntime) load(ctx context.Context, key string) (bool, error) {
	v, _, err := r.flags.Lookup(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// IsRTL reports the direction this process was launched with.
func (r *ProcessRuntime) IsRTL() bool {
	return r.launchRTL
}

// AllowsRTL reports whether right-to-left layout is permitted.
func (r *ProcessRuntime) AllowsRTL() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allowRTL
}

// SetAllowRTL records whether right-to-left layout is permitted. Storage
// failures are logged.
func (r *ProcessRuntime) SetAllowRTL(allow bool) {
	r.mu.Lock()
	r.allowRTL = allow
	r.mu.Unlock()

	if err := r.flags.Set(context.Background(), keyAllowRTL, allow); err != nil {
		r.log.Warn().Err(err).Bool("allow_rtl", allow).Msg("failed to persist allowRTL")
	}
}

// ForceRTL persists the direction the next launch renders with.
func (r *ProcessRuntime) ForceRTL(rtl bool) error {
	if err := r.flags.Set(context.Background(), keyForceRTL, rtl); err != nil {
		return fmt.Errorf("persist forceRTL: %w", err)
	}

	r.mu.Lock()
	r.forced = rtl
	r.mu.Unlock()
	return nil
}

// ForcedRTL returns the direction the next launch will render with.
func (r *ProcessRuntime) ForcedRTL() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forced
}

// PendingDirectionChange reports whether the forced direction differs from
// the one currently rendered.
func (r *ProcessRuntime) PendingDirectionChange() bool {
	return r.ForcedRTL() != r.launchRTL
}

// Reload requests a relaunch. The host performs it with Relaunch once it has
// released its resources.
func (r *ProcessRuntime) Reload(ctx context.Context) error {
	if !r.allowReload || r.exec == nil {
		return ErrReloadUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.reloadRequested.Store(true)
	r.log.Debug().Bool("rtl", r.ForcedRTL()).Msg("relaunch requested")
	return nil
}

// ReloadRequested reports whether Reload has been called successfully.
func (r *ProcessRuntime) ReloadRequested() bool {
	return r.reloadRequested.Load()
}

// Relaunch re-executes the current binary with the same arguments and
// environment. It only returns on failure.
func (r *ProcessRuntime) Relaunch() error {
	if r.exec == nil {
		return ErrReloadUnsupported
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	r.log.Info().Str("exe", exe).Msg("relaunching")
	if err := r.exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", exe, err)
	}
	return nil
}
