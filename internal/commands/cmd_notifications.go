package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/or-haklay/hayotush/internal/core/notify"
	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/printer"
	"github.com/or-haklay/hayotush/pkg/iojson"
)

const defaultRenderWidth = 80

type NotificationsCmd struct {
	flags *Flags
	app   *hayotush.App
	json  bool
	clear bool
	level string
	limit int
}

// NewNotificationsCmd creates a new notifications command.
func NewNotificationsCmd(flags *Flags, app *hayotush.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application.
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "notifications",
		Aliases: []string{"history"},
		Usage:   "List toasts shown so far, newest first",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
			&cli.StringFlag{
				Name:        "level",
				Usage:       "only show one level (success, error, warning, info)",
				Destination: &cmd.level,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most this many entries (0 for all)",
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete the stored history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NotificationsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	store := cmd.app.Notifications

	if cmd.clear {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		p.Successf("Notification history cleared")
		return nil
	}

	filter := notify.Filter{Level: notify.Level(cmd.level), Limit: cmd.limit}
	if filter.Level != "" && !filter.Level.Valid() {
		return fmt.Errorf("unknown level %q", cmd.level)
	}

	items, err := store.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	if cmd.json {
		return iojson.For(c).Write(items)
	}

	if len(items) == 0 {
		p.Infof("No notifications")
		return nil
	}

	return renderNotifications(c.Root().Writer, items, terminalWidth())
}

func renderNotifications(w io.Writer, items []notify.Notification, width int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(notificationsMarkdown(items))
	if err != nil {
		return fmt.Errorf("render notifications: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

func notificationsMarkdown(items []notify.Notification) string {
	var b strings.Builder
	b.WriteString("| Time | Kind | Message |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, n := range items {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			n.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			n.Level,
			escapeCell(n.Message),
		)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultRenderWidth
}
