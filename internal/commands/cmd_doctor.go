package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/core/doctor"
	"github.com/or-haklay/hayotush/internal/core/styles"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *hayotush.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *hayotush.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your hayotush setup",
		UsageText:   "hayotush doctor [options]",
		Description: "Runs diagnostic checks on configuration, storage, and the saved language and direction.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., replace an unsupported saved language)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	report := cmd.app.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	var err error
	if cmd.format == "json" {
		err = iojson.For(c).Write(struct {
			Healthy bool `json:"healthy"`
			doctor.Report
		}{report.Healthy(), report})
	} else {
		cmd.writeText(iojson.For(c).Err, report)
	}

	if err == nil && !report.Healthy() {
		return cli.Exit("", 1)
	}
	return err
}

var statusIcons = map[doctor.Status]func() string{
	doctor.StatusPass: func() string { return styles.SuccessStyle.Render("✔") },
	doctor.StatusWarn: func() string { return styles.WarningStyle.Render("●") },
	doctor.StatusFail: func() string { return styles.ErrorStyle.Render("✘") },
}

func (cmd *DoctorCmd) writeText(w io.Writer, report doctor.Report) {
	var b strings.Builder

	b.WriteString("\n" + styles.TitleStyle.Render("Hayotush Doctor") + "\n")
	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", 40)) + "\n\n")

	for _, result := range report.Checks {
		b.WriteString(styles.CommandHeaderStyle.Render(result.Name) + "\n")
		for _, item := range result.Items {
			fmt.Fprintf(&b, "  %s %s", statusIcons[item.Status](), item.Label)
			if item.Detail != "" {
				b.WriteString(" " + styles.HelpDescStyle.Render(item.Detail))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s  %s  %s\n",
		styles.SuccessStyle.Render(fmt.Sprintf("%d passed", report.Passed)),
		styles.WarningStyle.Render(fmt.Sprintf("%d warnings", report.Warned)),
		styles.ErrorStyle.Render(fmt.Sprintf("%d failed", report.Failed)),
	)

	if !cmd.autofix && report.Fixable > 0 {
		hint := fmt.Sprintf("Run 'hayotush doctor --autofix' to fix %d issue(s)", report.Fixable)
		b.WriteString("\n" + styles.HelpDescStyle.Render(hint) + "\n")
	}

	_, _ = io.WriteString(w, b.String())
}
