// Package logging holds the zerolog helpers shared by every hayotush
// subsystem: per-component loggers and context-carried fields.
package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names a value carried on a context and copied onto log events.
type Field string

const (
	FieldLanguage  Field = "lang"
	FieldOperation Field = "op"
	FieldToast     Field = "toast"
)

var contextFields = []Field{FieldLanguage, FieldOperation, FieldToast}

type fieldKey Field

// Component returns a child of the global logger tagged with cmp=name.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// With returns a copy of ctx carrying value under f. Empty values are
// ignored.
func With(ctx context.Context, f Field, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, fieldKey(f), value)
}

// WithLanguage tags ctx with the language being applied.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return With(ctx, FieldLanguage, lang)
}

// WithOperation tags ctx with an operation name such as "bootstrap".
func WithOperation(ctx context.Context, op string) context.Context {
	return With(ctx, FieldOperation, op)
}

// WithToast tags ctx with a toast request ID.
func WithToast(ctx context.Context, id string) context.Context {
	return With(ctx, FieldToast, id)
}

// Get returns the value stored under f, or "".
func Get(ctx context.Context, f Field) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(fieldKey(f)).(string)
	return v
}

// ContextHook copies the known context fields onto each event logged
// with Ctx.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}
	for _, f := range contextFields {
		if v := Get(ctx, f); v != "" {
			e.Str(string(f), v)
		}
	}
}
