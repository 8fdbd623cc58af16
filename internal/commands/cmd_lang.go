package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/or-haklay/hayotush/internal/core/locale"
	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/printer"
	"github.com/or-haklay/hayotush/pkg/iojson"
)

type LangCmd struct {
	flags *Flags
	app   *hayotush.App
	json  bool

	// pick chooses a language interactively when none is given.
	pick func(current string, options []languageOption) (string, error)
}

type languageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewLangCmd creates a new lang command.
func NewLangCmd(flags *Flags, app *hayotush.App) *LangCmd {
	return &LangCmd{
		flags: flags,
		app:   app,
		pick:  pickLanguage,
	}
}

// Register adds the lang command to the application.
func (cmd *LangCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON",
		Destination: &cmd.json,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "lang",
		Usage: "Show or change the interface language",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Show the active language and layout direction",
				Flags:  []cli.Flag{jsonFlag},
				Action: cmd.runGet,
			},
			{
				Name:   "list",
				Usage:  "List available languages",
				Flags:  []cli.Flag{jsonFlag},
				Action: cmd.runList,
			},
			{
				Name:      "set",
				Usage:     "Change the interface language",
				UsageText: "hayotush lang set [code]",
				Description: `Saves the language preference and reconciles the layout direction.

Switching between a left-to-right and a right-to-left language takes effect
the next time the TUI starts. Without a code an interactive picker is shown.`,
				Action: cmd.runSet,
			},
		},
	})

	return app
}

func (cmd *LangCmd) runGet(ctx context.Context, c *cli.Command) error {
	state := cmd.app.Locale.State()
	if cmd.json {
		return iojson.For(c).Write(state)
	}

	p := printer.Ctx(ctx)
	cat := cmd.app.Catalog
	p.Printf("%s", cat.T("app.language", cat.Name(state.Language)))
	p.Printf("%s", cat.T("app.direction", state.Direction.String()))
	if locale.IsRTLLanguage(state.Language) != state.RuntimeIsRTL {
		p.Warnf("%s", cat.T("app.restart_required"))
	}
	return nil
}

func (cmd *LangCmd) runList(ctx context.Context, c *cli.Command) error {
	options := cmd.options()
	if cmd.json {
		return iojson.For(c).Write(options)
	}

	p := printer.Ctx(ctx)
	current := cmd.app.Locale.CurrentLanguage()
	for _, o := range options {
		marker := " "
		if o.Code == current {
			marker = "*"
		}
		p.Printf("%s %-4s %s", marker, o.Code, o.Name)
	}
	return nil
}

func (cmd *LangCmd) runSet(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	cat := cmd.app.Catalog

	lang := c.Args().First()
	if lang == "" {
		var err error
		lang, err = cmd.pick(cmd.app.Locale.CurrentLanguage(), cmd.options())
		if err != nil {
			return err
		}
	}

	err := cmd.app.Locale.SetLanguage(ctx, lang)
	switch {
	case errors.Is(err, locale.ErrPersist):
		p.Errorf("%s", cat.T("settings.not_saved"))
		return cli.Exit("", 1)
	case errors.Is(err, locale.ErrUnsupportedLanguage):
		return fmt.Errorf("unsupported language %q (available: %s)", lang, strings.Join(cat.Languages(), ", "))
	case err != nil:
		return err
	}

	current := cmd.app.Locale.CurrentLanguage()
	p.Successf("%s", cat.T("settings.language_changed", cat.Name(current)))
	stale := locale.IsRTLLanguage(current) != cmd.app.Locale.State().RuntimeIsRTL
	if stale || cmd.app.Runtime.PendingDirectionChange() {
		p.Infof("%s", cat.T("app.restart_required"))
	}
	return nil
}

func (cmd *LangCmd) options() []languageOption {
	cat := cmd.app.Catalog
	langs := cat.Languages()
	out := make([]languageOption, 0, len(langs))
	for _, l := range langs {
		out = append(out, languageOption{Code: l, Name: cat.Name(l)})
	}
	return out
}

func pickLanguage(current string, options []languageOption) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no language given (stdin is not a terminal); pass a language code")
	}

	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Name+" ("+o.Code+")", o.Code))
	}

	selected := current
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Language").
			Options(opts...).
			Value(&selected),
	)).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}
