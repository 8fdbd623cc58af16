package hayotush

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/or-haklay/hayotush/internal/core/config"
	"github.com/or-haklay/hayotush/internal/core/locale"
	"github.com/or-haklay/hayotush/internal/data/db"
)

func setLocale(t *testing.T, lang string) {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", lang)
}

func newTestApp(t *testing.T, dataDir string, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	if mutate != nil {
		mutate(&cfg)
	}

	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	app, err := NewApp(context.Background(), &cfg, database, Build{Version: "test"})
	require.NoError(t, err)
	return app
}

func TestApp_Bootstrap_device_locale(t *testing.T) {
	setLocale(t, "en_US.UTF-8")
	app := newTestApp(t, t.TempDir(), nil)

	lang, err := app.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "en", lang)
	assert.Equal(t, "en", app.Catalog.Language())
	assert.Equal(t, locale.LTR, app.Locale.Direction())
	assert.False(t, app.Runtime.ReloadRequested())
}

func TestApp_Bootstrap_default_requests_relaunch(t *testing.T) {
	setLocale(t, "C")
	app := newTestApp(t, t.TempDir(), nil)

	lang, err := app.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "he", lang)
	assert.True(t, app.Runtime.ForcedRTL())
	assert.True(t, app.Runtime.ReloadRequested())
}

func TestApp_Bootstrap_after_relaunch_is_stable(t *testing.T) {
	setLocale(t, "C")
	dir := t.TempDir()

	first := newTestApp(t, dir, nil)
	_, err := first.Bootstrap(context.Background())
	require.NoError(t, err)
	require.True(t, first.Runtime.ReloadRequested())
	require.NoError(t, first.DB.Close())

	second := newTestApp(t, dir, nil)
	lang, err := second.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "he", lang)
	assert.True(t, second.Runtime.IsRTL())
	assert.False(t, second.Runtime.ReloadRequested())
}

func TestApp_development_host_never_relaunches(t *testing.T) {
	setLocale(t, "he_IL")
	app := newTestApp(t, t.TempDir(), func(c *config.Config) {
		c.Host.Development = true
	})

	_, err := app.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.False(t, app.Runtime.ReloadRequested())
	assert.False(t, app.Runtime.IsRTL())
	assert.Equal(t, locale.LTR, app.Locale.Direction(), "runtime keeps its launch direction")
	assert.Equal(t, "he", app.Locale.State().Language)
}

func TestApp_toasts_are_recorded(t *testing.T) {
	app := newTestApp(t, t.TempDir(), nil)

	app.Toasts.ShowSuccess("Reminder saved")

	n, err := app.Notifications.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestApp_RunChecks(t *testing.T) {
	setLocale(t, "en_US")
	app := newTestApp(t, t.TempDir(), nil)
	_, err := app.Bootstrap(context.Background())
	require.NoError(t, err)

	report := app.RunChecks(context.Background(), "", false)

	require.Len(t, report.Checks, 3)
	assert.True(t, report.Healthy())
}
