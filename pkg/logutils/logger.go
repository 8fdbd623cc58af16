// Package logutils builds the process-wide zerolog logger.
package logutils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/or-haklay/hayotush/internal/core/logging"
)

// Options configure New.
type Options struct {
	// Level is one of trace, debug, info, warn, error, fatal. Empty means info.
	Level string
	// File receives JSON lines. Parent directories are created. When empty,
	// logs go to Console.
	File string
	// Console is used when File is empty. Defaults to os.Stderr; a terminal
	// gets the human-readable console format.
	Console io.Writer
	// Version, when set, is attached to every event as "ver".
	Version string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the configured logger and a closer for its output.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	out, closer, err := openOutput(opts)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	ctx := zerolog.New(out).Hook(logging.ContextHook{}).With().Timestamp()
	if opts.Version != "" {
		ctx = ctx.Str("ver", opts.Version)
	}
	return ctx.Logger().Level(lvl), closer, nil
}

func openOutput(opts Options) (io.Writer, io.Closer, error) {
	if opts.File == "" {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		if f, ok := console.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}, nopCloser{}, nil
		}
		return console, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Join(errors.New("open log file"), err)
	}
	return f, f, nil
}
