package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/hayotush"
)

// NewRootCmd returns the root command with the global flags bound to flags.
func NewRootCmd(flags *Flags, version string) *cli.Command {
	return &cli.Command{
		Name:      "hayotush",
		Usage:     "Pet care reminders in your terminal",
		UsageText: "hayotush [global options] command [command options]",
		Description: `Hayotush shows toast notifications one at a time and keeps the layout
direction in step with the interface language.

Run 'hayotush' with no arguments to open the interactive console.
Run 'hayotush lang set <code>' to change the language.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("HAYOTUSH_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/hayotush.log)",
				Sources:     cli.EnvVars("HAYOTUSH_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("HAYOTUSH_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("HAYOTUSH_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "dev",
				Usage:       "development host: never force the layout direction or relaunch",
				Sources:     cli.EnvVars("HAYOTUSH_DEV"),
				Destination: &flags.Dev,
			},
		},
	}
}

// RegisterAll adds every subcommand to root.
func RegisterAll(root *cli.Command, flags *Flags, app *hayotush.App) *cli.Command {
	root = NewLangCmd(flags, app).Register(root)
	root = NewToastCmd(flags, app).Register(root)
	root = NewNotificationsCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	return root
}
