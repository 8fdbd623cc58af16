// Package hayotush wires the services shared by the CLI commands and the TUI.
package hayotush

import (
	"context"
	"fmt"

	"github.com/or-haklay/hayotush/internal/core/config"
	"github.com/or-haklay/hayotush/internal/core/host"
	"github.com/or-haklay/hayotush/internal/core/i18n"
	"github.com/or-haklay/hayotush/internal/core/locale"
	"github.com/or-haklay/hayotush/internal/core/logging"
	"github.com/or-haklay/hayotush/internal/core/toast"
	"github.com/or-haklay/hayotush/internal/data/db"
	"github.com/or-haklay/hayotush/internal/data/stores"
)

// Build describes the running binary.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for hayotush operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config        *config.Config
	DB            *db.DB
	KV            *stores.KVStore
	Notifications *stores.NotifyStore
	Toasts        *toast.Queue
	Catalog       *i18n.Catalog
	Runtime       *host.ProcessRuntime
	Locale        *locale.Reconciler
	Build         Build
}

// NewApp constructs an App on top of an open database.
func NewApp(ctx context.Context, cfg *config.Config, database *db.DB, build Build) (*App, error) {
	kvStore := stores.NewKVStore(database)
	notifications := stores.NewNotifyStore(database)

	catalog, err := i18n.Load(cfg.Language.Default, cfg.Language.Supported...)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	hostLog := logging.Component("host")
	runtime, err := host.New(ctx, host.Options{
		Store:       kvStore,
		AllowReload: cfg.Host.ReloadEnabled() && !cfg.Host.Development,
		Logger:      &hostLog,
	})
	if err != nil {
		return nil, fmt.Errorf("open runtime: %w", err)
	}

	reconciler := locale.NewReconciler(locale.Options{
		Runtime:           runtime,
		Translator:        catalog,
		Preferences:       kvStore,
		IsDevelopmentHost: cfg.Host.Development,
	})

	queue := toast.New(toast.Options{
		MaxActive: cfg.Toast.MaxActive,
		SettleGap: cfg.Toast.QueueSettleGap(),
		Durations: cfg.Toast.Durations,
		History:   notifications,
	})

	return &App{
		Config:        cfg,
		DB:            database,
		KV:            kvStore,
		Notifications: notifications,
		Toasts:        queue,
		Catalog:       catalog,
		Runtime:       runtime,
		Locale:        reconciler,
		Build:         build,
	}, nil
}

// Bootstrap resolves the startup language from the saved preference, the
// device locale or the configured default, and reconciles the direction.
func (a *App) Bootstrap(ctx context.Context) (string, error) {
	return a.Locale.Bootstrap(ctx, locale.DeviceLocale(), a.Config.Language.Default)
}
