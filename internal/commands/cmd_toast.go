package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/or-haklay/hayotush/internal/core/toast"
	"github.com/or-haklay/hayotush/internal/hayotush"
	"github.com/or-haklay/hayotush/internal/printer"
	"github.com/or-haklay/hayotush/pkg/iojson"
)

type ToastCmd struct {
	flags *Flags
	app   *hayotush.App
	input *iojson.Input[ToastBatchInput]

	kind     string
	duration time.Duration
}

// NewToastCmd creates a new toast command.
func NewToastCmd(flags *Flags, app *hayotush.App) *ToastCmd {
	return &ToastCmd{
		flags: flags,
		app:   app,
		input: &iojson.Input[ToastBatchInput]{},
	}
}

// Register adds the toast command to the application.
func (cmd *ToastCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "toast",
		Usage: "Show toast notifications in the terminal",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a single toast and wait until it is dismissed",
				UsageText: "hayotush toast show [--kind success|error|warning|info] [--duration 3s] <message>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "kind",
						Aliases:     []string{"k"},
						Usage:       "toast kind (success, error, warning, info)",
						Value:       string(toast.KindInfo),
						Destination: &cmd.kind,
					},
					&cli.DurationFlag{
						Name:        "duration",
						Aliases:     []string{"d"},
						Usage:       "display duration (defaults to the kind's configured duration)",
						Destination: &cmd.duration,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:  "batch",
				Usage: "Queue several toasts from JSON input",
				UsageText: `hayotush toast batch [options]

Read from stdin:
  echo '{"toasts":[{"kind":"success","message":"Reminder saved"}]}' | hayotush toast batch

Read from file:
  hayotush toast batch -f toasts.json`,
				Description: `Queues every toast in order and plays them one at a time.

Input JSON schema:
  {
    "toasts": [
      {"kind": "success", "message": "text", "duration": "2s"}
    ]
  }

Fields:
  kind     - Optional. success, error, warning or info (default info).
  message  - Required. Text to display.
  duration - Optional. Go duration string, defaults to the kind's duration.

Output is JSON with the id assigned to each toast.`,
				Flags:  []cli.Flag{cmd.input.Flag()},
				Action: cmd.runBatch,
			},
		},
	})

	return app
}

func (cmd *ToastCmd) runShow(ctx context.Context, c *cli.Command) error {
	message := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(message) == "" {
		return errors.New("message is required")
	}

	kind, ok := toast.ParseKind(cmd.kind)
	if !ok {
		return fmt.Errorf("unknown kind %q", cmd.kind)
	}

	p := printer.Ctx(ctx)
	cmd.app.Toasts.Show(message, kind, cmd.duration)
	playToasts(ctx, cmd.app.Toasts, cmd.app.Config.Toast.TickInterval, func(req toast.Request) {
		printToast(p, req)
	})
	return nil
}

func (cmd *ToastCmd) runBatch(ctx context.Context, c *cli.Command) error {
	streams := iojson.For(c)

	input, err := cmd.input.Read(c)
	if err != nil {
		return streams.Fail(err.Error(), batchErrorData(err))
	}

	output := ToastBatchOutput{Results: make([]ToastBatchResult, 0, len(input.Toasts))}
	for _, t := range input.Toasts {
		kind, ok := toast.ParseKind(t.Kind)
		if !ok {
			kind = toast.KindInfo
		}
		d, _ := t.parseDuration()
		id := cmd.app.Toasts.Show(t.Message, kind, d)
		output.Results = append(output.Results, ToastBatchResult{ID: id, Kind: kind, Message: t.Message})
	}

	playToasts(ctx, cmd.app.Toasts, cmd.app.Config.Toast.TickInterval, func(req toast.Request) {
		log.Debug().Str("id", req.ID).Str("kind", string(req.Kind)).Msg("toast shown")
	})

	return streams.Write(output)
}

// batchErrorData lists per-field validation failures, if any.
func batchErrorData(err error) map[string]any {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field] = fe.Err.Error()
	}
	return map[string]any{"fields": fields}
}

func printToast(p *printer.Printer, req toast.Request) {
	switch req.Kind {
	case toast.KindSuccess:
		p.Successf("%s", req.Message)
	case toast.KindError:
		p.Errorf("%s", req.Message)
	case toast.KindWarning:
		p.Warnf("%s", req.Message)
	default:
		p.Infof("%s", req.Message)
	}
}

// ToastBatchInput is the JSON input schema for toast batch.
type ToastBatchInput struct {
	Toasts []ToastBatchItem `json:"toasts"`
}

// ToastBatchItem is a single toast to queue.
type ToastBatchItem struct {
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
	Duration string `json:"duration,omitempty"`
}

func (t ToastBatchItem) parseDuration() (time.Duration, error) {
	if t.Duration == "" {
		return 0, nil
	}
	return time.ParseDuration(t.Duration)
}

// Validate checks the batch input for errors using criterio.
func (b ToastBatchInput) Validate() error {
	if len(b.Toasts) == 0 {
		return criterio.NewFieldErrors("toasts", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, t := range b.Toasts {
		field := fmt.Sprintf("toasts[%d]", i)

		if strings.TrimSpace(t.Message) == "" {
			errs = errs.Append(field+".message", errors.New("cannot be empty"))
		}
		if t.Kind != "" {
			if _, ok := toast.ParseKind(t.Kind); !ok {
				errs = errs.Append(field+".kind", fmt.Errorf("unknown kind %q", t.Kind))
			}
		}
		d, err := t.parseDuration()
		switch {
		case err != nil:
			errs = errs.Append(field+".duration", err)
		case d < 0:
			errs = errs.Append(field+".duration", errors.New("cannot be negative"))
		}
	}

	return errs.ToError()
}

// ToastBatchResult is the output for a single queued toast.
type ToastBatchResult struct {
	ID      string     `json:"id"`
	Kind    toast.Kind `json:"kind"`
	Message string     `json:"message"`
}

// ToastBatchOutput is the JSON output schema.
type ToastBatchOutput struct {
	Results []ToastBatchResult `json:"results"`
}
