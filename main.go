package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/commands"
	"github.com/or-haklay/hayotush/internal/core/config"
	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/data/db"
	"github.com/or-haklay/hayotush/internal/data/stores"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/hayotush/sweep"
	"github.com/or-haklay/hayotush/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() hayotush.Build {
	b := hayotush.Build{Version: version, Commit: commit, Date: date}

	if b.Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				b.Version = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					b.Commit = s.Value
				case "vcs.time":
					b.Date = s.Value
				}
			}
		}
	}

	return b
}

func versionString(b hayotush.Build) string {
	short := b.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s) %s", b.Version, short, b.Date)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		build       = buildInfo()
		app         = &hayotush.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := commands.NewRootCmd(flags, versionString(build))
	root.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		cfg.Host.Development = cfg.Host.Development || flags.Dev
		flags.Config = cfg

		// Always log to a file; use explicit path or default to <datadir>/hayotush.log
		logFile := flags.LogFile
		if logFile == "" {
			logFile = cfg.LogFile()
		}

		logger, closer, err := logutils.New(logutils.Options{
			Level:   flags.LogLevel,
			File:    logFile,
			Version: build.Version,
		})
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = func() { _ = closer.Close() }

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.TUI.Theme)
		styles.SetTheme(palette)

		dbOpts := db.OpenOptions{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			BusyTimeout:  cfg.Database.BusyTimeout,
		}
		database, _, err = stores.OpenDatabase(cfg.DataDir, dbOpts)
		if err != nil {
			return ctx, fmt.Errorf("open database: %w", err)
		}

		a, err := hayotush.NewApp(ctx, cfg, database, build)
		if err != nil {
			return ctx, err
		}
		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*app = *a

		if _, err := app.Bootstrap(ctx); err != nil {
			return ctx, fmt.Errorf("resolve language: %w", err)
		}

		if cfg.History.Retention > 0 {
			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go sweep.Start(sweepCtx, app.Notifications, cfg.History.Retention, cfg.History.SweepInterval)
		}

		return ctx, nil
	}
	root.After = func(ctx context.Context, c *cli.Command) error {
		// Stop background sweep
		if sweepCancel != nil {
			sweepCancel()
		}

		// Close database connection
		if database != nil {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}
		}

		// Close log file
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	tuiCmd := commands.NewTuiCmd(flags, app)
	root = commands.RegisterAll(root, flags, app)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'hayotush --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	// Only the TUI relaunches. The process is replaced after the database
	// and log file are closed.
	if runErr == nil && tuiCmd.Relaunch() {
		if err := app.Runtime.Relaunch(); err != nil {
			fmt.Println(err.Error())
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}
