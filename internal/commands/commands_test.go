package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/core/config"
	"github.com/or-haklay/hayotush/internal/data/db"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/printer"
	"github.com/or-haklay/hayotush/pkg/tuitest"
)

type harness struct {
	flags  *Flags
	app    *hayotush.App
	root   *cli.Command
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Toast.SettleGap = 0
	cfg.Toast.TickInterval = 5 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	app, err := hayotush.NewApp(context.Background(), &cfg, database, hayotush.Build{Version: "test"})
	require.NoError(t, err)
	_, err = app.Bootstrap(context.Background())
	require.NoError(t, err)

	h := &harness{
		flags: &Flags{Config: &cfg, DataDir: dir},
		app:   app,
	}
	h.root = &cli.Command{
		Name:           "hayotush",
		Writer:         &h.stdout,
		ErrWriter:      &h.stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	return h
}

// run executes args against the registered commands with output captured.
func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	ctx := printer.NewContext(context.Background(), printer.New(&h.stdout, &h.stderr))
	return h.root.Run(ctx, append([]string{"hayotush"}, args...))
}

func (h *harness) out() string { return tuitest.StripANSI(h.stdout.String()) }
func (h *harness) err() string { return tuitest.StripANSI(h.stderr.String()) }

func TestRegisterAll(t *testing.T) {
	flags := &Flags{}
	root := RegisterAll(NewRootCmd(flags, "v0.0.0"), flags, &hayotush.App{})

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"lang", "toast", "notifications", "config", "doctor"}, names)
	assert.Equal(t, "v0.0.0", root.Version)
}
