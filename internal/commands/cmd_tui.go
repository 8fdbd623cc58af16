package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/tui"
)

type TuiCmd struct {
	flags    *Flags
	app      *hayotush.App
	relaunch bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *hayotush.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Relaunch reports whether the TUI exited so the process can be restarted
// with a new layout direction.
func (cmd *TuiCmd) Relaunch() bool {
	return cmd.relaunch
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	// Startup reconciliation already forced a new direction. Restart before
	// drawing anything in the stale one.
	if cmd.app.Runtime.ReloadRequested() {
		log.Info().Msg("direction changed at startup, relaunching before the TUI starts")
		cmd.relaunch = true
		return nil
	}

	deps := tui.Deps{
		Queue:        cmd.app.Toasts,
		Reconciler:   cmd.app.Locale,
		Catalog:      cmd.app.Catalog,
		Runtime:      cmd.app.Runtime,
		TickInterval: cmd.app.Config.Toast.TickInterval,
		Version:      cmd.app.Build.Version,
	}

	m := tui.New(ctx, deps)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if model, ok := finalModel.(tui.Model); ok {
		cmd.relaunch = model.Relaunch()
	}

	return nil
}
